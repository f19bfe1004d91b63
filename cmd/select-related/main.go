package main

import (
	"github.com/sirupsen/logrus"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
