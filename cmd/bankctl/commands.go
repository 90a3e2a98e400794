package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"truthordare/internal/config"
	"truthordare/internal/model"
	"truthordare/internal/repository"
	"truthordare/internal/service"
)

// bankFlags selects the question bank the commands operate on
type bankFlags struct {
	source   string
	dir      string
	mongoURI string
	mongoDB  string
}

func newRootCmd() *cobra.Command {
	flags := &bankFlags{
		source:   config.QuestionsFile,
		dir:      "data",
		mongoURI: "mongodb://localhost:27017",
		mongoDB:  "truthordare",
	}
	// Environment provides the defaults, flags override them
	if cfg, err := config.Load(); err == nil {
		flags.source = cfg.QuestionSource
		flags.dir = cfg.QuestionDir
		flags.mongoURI = cfg.MongoURI
		flags.mongoDB = cfg.MongoDB
	}

	root := &cobra.Command{
		Use:   "bankctl",
		Short: "Edit the truth or dare question bank",
		Long: `bankctl lists, adds and removes prompts of the four categories
(truth_boy, truth_girl, dare_boy, dare_girl) in the file or Mongo bank.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.source, "source", flags.source, "question source: file or mongo")
	root.PersistentFlags().StringVar(&flags.dir, "dir", flags.dir, "directory of the question files")
	root.PersistentFlags().StringVar(&flags.mongoURI, "mongo-uri", flags.mongoURI, "MongoDB connection string")
	root.PersistentFlags().StringVar(&flags.mongoDB, "mongo-db", flags.mongoDB, "MongoDB database")

	root.AddCommand(
		newListCmd(flags),
		newAddCmd(flags),
		newRemoveCmd(flags),
		newSeedCmd(flags),
	)
	return root
}

func newListCmd(flags *bankFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [category]",
		Short: "List the prompts of a category, or count every category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd.Context(), flags, func(ctx context.Context, bank repository.QuestionBank) error {
				out := cmd.OutOrStdout()
				if len(args) == 0 {
					for _, category := range model.Categories {
						n, err := countPrompts(ctx, bank, category)
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "%-10s %d\n", category, n)
					}
					return nil
				}

				prompts, err := service.NewQuestionService(bank).List(ctx, args[0])
				if err != nil {
					return err
				}
				for i, p := range prompts {
					fmt.Fprintf(out, "%3d. %s\n", i+1, p)
				}
				return nil
			})
		},
	}
}

func newAddCmd(flags *bankFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <prompt...>",
		Short: "Append a prompt to a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd.Context(), flags, func(ctx context.Context, bank repository.QuestionBank) error {
				text := strings.Join(args[1:], " ")
				if err := service.NewQuestionService(bank).Add(ctx, args[0], text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added to %s: %s\n", args[0], text)
				return nil
			})
		},
	}
}

func newRemoveCmd(flags *bankFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category> <prompt...>",
		Short: "Remove a prompt from a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd.Context(), flags, func(ctx context.Context, bank repository.QuestionBank) error {
				text := strings.Join(args[1:], " ")
				if err := service.NewQuestionService(bank).Remove(ctx, args[0], text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed from %s: %s\n", args[0], text)
				return nil
			})
		},
	}
}

func newSeedCmd(flags *bankFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill empty categories with the sample prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBank(cmd.Context(), flags, func(ctx context.Context, bank repository.QuestionBank) error {
				added, err := repository.SeedBank(ctx, bank, model.SamplePrompts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d prompts\n", added)
				return nil
			})
		},
	}
}

// withBank opens the selected bank, runs fn and releases the bank
func withBank(ctx context.Context, flags *bankFlags, fn func(context.Context, repository.QuestionBank) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch flags.source {
	case config.QuestionsFile:
		return fn(ctx, repository.NewFileBank(flags.dir))
	case config.QuestionsMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(flags.mongoURI))
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer client.Disconnect(context.Background())
		return fn(ctx, repository.NewQuestionRepo(client, flags.mongoDB))
	default:
		return errors.New("unknown source " + flags.source)
	}
}

func countPrompts(ctx context.Context, bank repository.QuestionBank, category model.Category) (int64, error) {
	if repo, ok := bank.(repository.QuestionRepo); ok {
		return repo.Count(ctx, category)
	}
	prompts, err := bank.ListPrompts(ctx, category)
	return int64(len(prompts)), err
}
