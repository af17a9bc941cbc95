package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/config"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/engine"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/perception"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/store"
	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

var (
	chatUser string
	chatSeed bool
)

// chatCmd runs the interactive REPL transport.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat loop over stdin/stdout",
	Long: `Reads operator messages line by line and answers in Ukrainian.

Each line goes through the full pipeline: situational facts are gathered
from the store, the provider picks a function or replies directly, the
dispatcher executes, and the outcome is narrated back.

Commands inside the loop:
  /clear   forget the conversation history
  /quit    exit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "Caller identity: user id, name or @handle (required)")
	chatCmd.Flags().BoolVar(&chatSeed, "seed", false, "Seed demo data into an empty database")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	eng, st, caller, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	// Live-reload logging settings on config edits. Engine wiring stays
	// fixed for the lifetime of the session.
	if watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
		logger.Info("Config reloaded", zap.String("path", configPath))
		cfg.Logging = next.Logging
	}); err == nil {
		if err := watcher.Start(ctx); err == nil {
			defer watcher.Stop()
		}
	}

	conversationID := "chat:" + caller.ID
	fmt.Printf("aptsbot готовий. Ви: %s. Пишіть повідомлення (/quit для виходу).\n", caller.Name)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "/quit", "/exit":
			return nil
		case "/clear":
			eng.ClearConversation(conversationID)
			fmt.Println("Історію розмови очищено.")
			continue
		}
		if ctx.Err() != nil {
			return nil
		}

		facts, err := engine.GatherFacts(ctx, st, *caller)
		if err != nil {
			logger.Warn("Fact gathering failed", zap.Error(err))
			fmt.Println("Помилка сховища даних, спробуйте пізніше.")
			continue
		}
		reply := eng.InterpretAndDispatch(ctx, line, conversationID, facts)
		fmt.Println(reply)
	}
	return scanner.Err()
}

// buildEngine wires store, provider client and engine from the loaded
// config, resolving the caller identity against the user table.
func buildEngine(ctx context.Context) (*engine.Engine, *store.SQLiteStore, *types.User, error) {
	if chatUser == "" {
		return nil, nil, nil, errors.New("--user is required: pass a user id, name or @handle")
	}

	st, err := store.NewSQLiteStore(cfg.Store.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open entity store: %w", err)
	}
	if chatSeed {
		if err := st.SeedDemo(ctx); err != nil {
			st.Close()
			return nil, nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	caller, err := st.FindUserByNameOrHandle(ctx, chatUser)
	if err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("unknown user %q: %w", chatUser, err)
	}

	llm, err := perception.NewClient(ctx, cfg.LLM)
	if err != nil {
		st.Close()
		return nil, nil, nil, fmt.Errorf("failed to build provider client: %w", err)
	}

	timeout, err := cfg.EngineTimeout()
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}
	eng := engine.New(llm, st, engine.Options{
		HistoryLimit: cfg.Engine.HistoryLimit,
		Timeout:      timeout,
	})
	logger.Info("Engine ready",
		zap.String("user", caller.ID),
		zap.Bool("admin", caller.IsAdmin),
		zap.String("provider", cfg.LLM.Provider))
	return eng, st, caller, nil
}
