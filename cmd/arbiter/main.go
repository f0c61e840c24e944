package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/viant/arbiter/cmd/arbiter/subcmd"
)

func main() {
	if err := subcmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
