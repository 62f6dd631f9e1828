package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/samuelfneumann/roverdomain/environment/envconfig"
	"github.com/samuelfneumann/roverdomain/experiment"
	"github.com/samuelfneumann/roverdomain/experiment/tracker"
	"github.com/samuelfneumann/roverdomain/utils/progressbar"
	"github.com/spf13/cobra"
)

// configEnv names the environment variable holding the default
// configuration path
const configEnv = "ROVERDOMAIN_CONFIG"

func main() {
	// A missing .env file is not an error
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "roverdomain",
		Short:        "Run and validate multi-agent rover domain experiments",
		SilenceUsage: true,
	}

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		os.Getenv(configEnv), "path to a YAML or JSON configuration file "+
			"(default $"+configEnv+", or the built-in configuration)")

	var (
		episodes int
		seed     uint64
		out      string
		progress bool
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run episodes of a rover domain with a random policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(configPath, episodes, seed, out, progress)
		},
	}
	runCmd.Flags().IntVarP(&episodes, "episodes", "n", 10,
		"number of episodes to run")
	runCmd.Flags().Uint64VarP(&seed, "seed", "s", 0, "random policy seed")
	runCmd.Flags().StringVarP(&out, "out", "o", "",
		"file to save the episodic team returns to")
	runCmd.Flags().BoolVarP(&progress, "progress", "p", false,
		"display a progress bar instead of per-episode logs")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := envconfig.Load(configPath)
			if err != nil {
				return err
			}
			name := configPath
			if name == "" {
				name = "default configuration"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v: %d rovers, %d pois, "+
				"%s evaluator\n", name, c.NumRovers, c.NumPOIs, c.Evaluator)
			return nil
		},
	}

	defaultCmd := &cobra.Command{
		Use:   "default",
		Short: "Print the default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := envconfig.Load("")
			if err != nil {
				return err
			}
			return envconfig.Write(cmd.OutOrStdout(), c)
		},
	}

	rootCmd.AddCommand(runCmd, validateCmd, defaultCmd)
	return rootCmd
}

func runExperiment(configPath string, episodes int, seed uint64,
	out string, progress bool) error {
	c, err := envconfig.Load(configPath)
	if err != nil {
		return err
	}

	returns := tracker.NewReturn()
	rovers := tracker.NewRoverReturn()
	expConf := experiment.Config{
		Type:     experiment.OnlineExp,
		Episodes: episodes,
		Seed:     seed,
		EnvConf:  c,
	}
	e, err := expConf.CreateExp(returns, rovers)
	if err != nil {
		return err
	}

	if !progress {
		if err := e.Run(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	} else {
		online := e.(*experiment.Online)
		online.SetLogger(log.New(io.Discard, "", 0))

		bar := progressbar.NewManualProgressBar(os.Stderr, 40, episodes)
		for ended := false; !ended; {
			if ended, err = online.RunEpisode(); err != nil {
				bar.Close()
				return fmt.Errorf("run: %w", err)
			}
			bar.Increment()
			bar.Display()
		}
		bar.Close()
	}
	log.Printf("mean team return over %d episodes: %.4f", episodes,
		returns.Mean())
	for i, r := range rovers.Returns() {
		log.Printf("episode %d rover returns: %v", i+1, r)
	}

	if out == "" {
		return nil
	}
	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("run: could not open save file: %v", err)
	}
	defer file.Close()
	return returns.Save(file)
}
