package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rower/internal/datapackage"
	"rower/internal/rower"
	"rower/internal/store"
)

var (
	outputRoot string
	overwrite  bool
	newName    string
	inPlace    bool
	dryRun     bool
)

// defineCmd runs the disambiguation pipeline for one dataset
var defineCmd = &cobra.Command{
	Use:   "define [dataset]",
	Short: "Generate canonical RoW labels for a dataset",
	Long: `Groups the dataset's activities by (name, reference product), derives a
canonical RoW label per group containing a RoW activity, and writes the RoW
definition and the activity mapping as a data package.

Examples:
  rower define ecoinvent-3.8 --output ./data
  rower define ecoinvent-3.8 --in-place --overwrite
  rower define ecoinvent-3.8 --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runDefine,
}

func init() {
	defineCmd.Flags().StringVarP(&outputRoot, "output", "o", "", "data package root directory (default from config)")
	defineCmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing data package")
	defineCmd.Flags().StringVar(&newName, "name", "", "override the data package name (defaults to the dataset name)")
	defineCmd.Flags().BoolVar(&inPlace, "in-place", false, "write the canonical labels back onto the database")
	defineCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and report only, write nothing")
}

func runDefine(cmd *cobra.Command, args []string) error {
	dataset := args[0]

	st, err := store.NewStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	r, err := rower.New(st, dataset)
	if err != nil {
		return err
	}

	definition, mapping, err := r.DefineRoWs()
	if err != nil {
		return err
	}
	logger.Info("Generated RoW definitions",
		zap.String("dataset", dataset),
		zap.Int("definitions", len(definition)),
		zap.Int("activities", len(mapping)))

	if dryRun {
		fmt.Printf("%d RoW definitions covering %d activities in dataset %q (dry run, nothing written)\n",
			len(definition), len(mapping), dataset)
		return nil
	}

	root := outputRoot
	if root == "" {
		root = cfg.Output.Root
	}
	dir, err := datapackage.Write(definition, mapping, datapackage.WriteOptions{
		Root:      root,
		Overwrite: overwrite || cfg.Output.Overwrite,
		NewName:   newName,
	})
	if err != nil {
		return err
	}
	logger.Info("Wrote data package", zap.String("dir", dir))
	fmt.Printf("Data package written to %s\n", dir)

	if inPlace {
		if err := r.Apply(mapping); err != nil {
			return err
		}
		logger.Info("Relabeled database in place",
			zap.String("dataset", dataset),
			zap.Int("activities", len(mapping)))
		fmt.Printf("Relabeled %d activities in dataset %q\n", len(mapping), dataset)
	}
	return nil
}
