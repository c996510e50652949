package main

import (
	"flag"
	"fmt"
	"os"

	"paynote/pkg/config"
	"paynote/pkg/postgres"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *down {
		err = postgres.DownMigration(cfg.Database.DSN())
	} else {
		err = postgres.UpMigrations(cfg.Database.DSN())
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations done")
}
