// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command yamdbctl is the operator CLI: schema migrations and superuser
// bootstrap.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/taibuivan/yamdb/cmd/yamdbctl/commands"
)

func main() {
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
