package main

import (
	"os"

	"github.com/yeremiapane/quickserve/cli"
	"github.com/yeremiapane/quickserve/utils"
)

func main() {
	if err := cli.Execute(); err != nil {
		utils.ErrorLogger.Error(err)
		os.Exit(1)
	}
}
