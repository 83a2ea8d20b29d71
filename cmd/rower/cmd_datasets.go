package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rower/internal/store"
)

// datasetsCmd lists registered datasets
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List registered datasets",
	RunE:  runDatasets,
}

func runDatasets(cmd *cobra.Command, args []string) error {
	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	names, err := st.Datasets()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No datasets registered")
		return nil
	}
	for _, name := range names {
		n, err := st.Count(name)
		if err != nil {
			return err
		}
		fmt.Printf("  %s (%d records)\n", name, n)
	}
	return nil
}
