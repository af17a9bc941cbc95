package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/catalog"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/dispatch"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/store"
)

// dispatchCmd executes one operation directly, bypassing the provider.
// Useful for scripting and for exercising the dispatcher in isolation.
var dispatchCmd = &cobra.Command{
	Use:   "dispatch [operation] [args-json]",
	Short: "Execute a single catalog operation with JSON arguments",
	Long: `Runs one operation from the function catalog without involving the
NLP provider. Arguments are passed as a JSON object.

Example:
  aptsbot dispatch update_task_time '{"taskId":"562","newTime":"12:00","changeType":"checkout","userId":"u-olena"}'`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return nil
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: runDispatch,
}

var dispatchList bool

func init() {
	dispatchCmd.Flags().BoolVar(&dispatchList, "list", false, "List catalog operations and exit")
}

func runDispatch(cmd *cobra.Command, args []string) error {
	if dispatchList {
		for _, spec := range catalog.All() {
			fmt.Printf("%-32s %s\n", spec.Name, spec.Description)
		}
		return nil
	}

	name := args[0]
	var opArgs map[string]any
	if err := json.Unmarshal([]byte(args[1]), &opArgs); err != nil {
		return fmt.Errorf("arguments must be a JSON object: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open entity store: %w", err)
	}
	defer st.Close()

	result := dispatch.New(st).Execute(context.Background(), name, opArgs)
	status := "OK"
	if !result.Success {
		status = "FAIL"
	}
	fmt.Printf("[%s] %s\n", status, result.Message)
	return nil
}

// seedCmd populates an empty database with demo users, tasks and one
// assignment so the chat loop has something to operate on.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo data into the entity store",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSQLiteStore(cfg.Store.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open entity store: %w", err)
		}
		defer st.Close()
		if err := st.SeedDemo(context.Background()); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
		fmt.Println("Demo data seeded.")
		return nil
	},
}
