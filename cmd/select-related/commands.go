package main

import (
	"fmt"
	"github.com/go-extras/cobraflags"
	"github.com/reuben-baek/select-related/data"
	"github.com/reuben-baek/select-related/infra"
	"github.com/reuben-baek/select-related/seed"
	"github.com/spf13/cobra"
	"strings"
	"text/tabwriter"
)

const fetchFlag = "fetch"

func (a *app) newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the product_types and products tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := infra.Migrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated product_types, products")
			return nil
		},
	}
}

func (a *app) newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and load 2 product types with 3 products each",
		Long: `Migrate and load the sample catalog. Seeding is not idempotent,
every run adds 2 more product types and 6 more products.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := infra.Migrate(a.db); err != nil {
				return err
			}
			productTypeRepository := infra.NewGormProductTypeRepository(a.transactionManager)
			productRepository := infra.NewGormProductRepository(a.transactionManager, data.FetchLazyMode)
			if err := seed.Create(cmd.Context(), productTypeRepository, productRepository); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seeded 2 product types, 6 products")
			return nil
		},
	}
}

func (a *app) newListCommand() *cobra.Command {
	listFlags := map[string]cobraflags.Flag{
		fetchFlag: &cobraflags.StringFlag{
			Name:  fetchFlag,
			Value: string(data.FetchLazyMode),
			Usage: "How each product's type is fetched: lazy (1+N queries), eager (preload, 2 queries) or join (1 query)",
		},
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products with their product type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := data.ParseFetchMode(listFlags[fetchFlag].GetString())
			if err != nil {
				return err
			}
			productRepository := infra.NewGormProductRepository(a.transactionManager, mode)

			a.queryCounter.Reset()
			products, err := productRepository.FindAll(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRODUCT TYPE")
			for _, p := range products {
				productType := p.ProductType.Get()
				if err := p.ProductType.Err(); err != nil {
					return fmt.Errorf("load product type of product %d: %w", p.ID, err)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, productType.TypeName)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d products, %d queries (fetch=%s)\n", len(products), a.queryCounter.Count(), mode)
			return nil
		},
	}
	cobraflags.RegisterMap(listCmd, listFlags)
	return listCmd
}

func (a *app) newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List product types with their products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			productTypeRepository := infra.NewGormProductTypeRepository(a.transactionManager)
			productRepository := infra.NewGormProductRepository(a.transactionManager, data.FetchLazyMode)

			productTypes, err := productTypeRepository.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRODUCT TYPE\tPRODUCTS")
			for _, productType := range productTypes {
				products, err := productRepository.FindByProductType(cmd.Context(), productType)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(products))
				for _, p := range products {
					names = append(names, p.Name)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", productType.ID, productType.TypeName, strings.Join(names, ", "))
			}
			return w.Flush()
		},
	}
}
