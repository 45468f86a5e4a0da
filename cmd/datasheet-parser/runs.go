// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/datasheet-parser/internal/ledger"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run ledger",
	Long: `Runs queries the SQLite ledger of past parse runs, recorded alongside
the output artifacts. Use it to see which pages of a document failed
and are therefore missing from the merged result.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent parse runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's per-page outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.PersistentFlags().StringP("output", "o", "", "output directory containing the ledger (default \"output\")")
	runsCmd.PersistentFlags().Bool("json", false, "output as JSON")
	runsListCmd.Flags().Int("limit", 20, "maximum number of runs to list")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func openLedger(cmd *cobra.Command) (*ledger.Store, error) {
	dir, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = viper.GetString("output_dir")
	}
	return ledger.Open(dir)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-4s  %-30s  %-20s  %-10s  %-20s  %s\n",
		"ID", "Document", "Model", "Mode", "Started", "Pages")
	fmt.Println(strings.Repeat("-", 100))
	for _, r := range records {
		doc := r.Document
		if len(doc) > 30 {
			doc = "..." + doc[len(doc)-27:]
		}
		fmt.Printf("%-4d  %-30s  %-20s  %-10s  %-20s  %d/%d\n",
			r.ID, doc, r.Model, r.Mode, r.StartedAt, r.PagesOK, r.PagesTotal)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run ID %q", args[0])
	}

	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	record, pages, err := store.Show(context.Background(), id)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Run   ledger.RunRecord    `json:"run"`
			Pages []ledger.PageRecord `json:"pages"`
		}{record, pages})
	}

	fmt.Printf("Run %d: %s (%s, %s)\n", record.ID, record.Document, record.Model, record.Mode)
	fmt.Printf("Started: %s, pages: %d/%d succeeded\n\n", record.StartedAt, record.PagesOK, record.PagesTotal)
	for _, p := range pages {
		if p.OK {
			fmt.Printf("  page %03d: ok (%d bytes)\n", p.Page, p.Bytes)
		} else {
			fmt.Printf("  page %03d: failed (%s)\n", p.Page, p.Error)
		}
	}
	return nil
}
