package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yanqian/brew-advisor/internal/infra/feedbackstore"
	"github.com/yanqian/brew-advisor/internal/predictor/rules"
	"github.com/yanqian/brew-advisor/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "brew-predictor '<json request>'",
	Short: "Rule-based beverage predictor that learns from recorded feedback",
	Long: `brew-predictor reads one JSON request {"weather","mood","temperature","humidity"}
from its first argument and prints {"prediction": ...} on stdout, or {"error": ...}
with exit status 1.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./brew-predictor.yaml when present)")

	rootCmd.Flags().String("feedback-file", "data/feedback.json", "Feedback log used to re-weight the rule table")
	rootCmd.Flags().Uint64("seed", 0, "Random seed (0 seeds from the clock)")
	rootCmd.Flags().String("log-level", "warn", "Log level for diagnostics on stderr")

	_ = viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("brew-predictor")
	}

	viper.SetEnvPrefix("BREW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

type errorOutput struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	log := logger.NewWithWriter(stderr, viper.GetString("log-level"))

	result, err := predict(ctx, args, log)
	enc := json.NewEncoder(stdout)
	if err != nil {
		_ = enc.Encode(errorOutput{Error: err.Error()})
		return err
	}
	return enc.Encode(result)
}

func predict(ctx context.Context, args []string, log *slog.Logger) (rules.Result, error) {
	if len(args) < 1 {
		return rules.Result{}, errors.New("no input data provided")
	}
	var req rules.Request
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return rules.Result{}, fmt.Errorf("invalid input data: %w", err)
	}

	history, _ := feedbackstore.NewFileStore(viper.GetString("feedback-file"), log).LoadAll(ctx)

	seed := viper.GetUint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rules.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Predict(req, history)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
