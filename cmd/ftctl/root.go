package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"finetune_admin/internal/finetune"
	"finetune_admin/internal/providers"
	"finetune_admin/internal/registry"
	"finetune_admin/internal/storage"
	"finetune_admin/internal/trainingset"
	"finetune_admin/internal/utils"
)

var (
	modelsFile string
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:   "ftctl",
	Short: "Manage fine-tuned email models",
	Long: `ftctl manages the fine-tuned model registry and the email training
pipeline: inspect senders in exported email CSVs, build JSONL training
sets, start fine-tune jobs, and track them until the resulting model
lands in the registry.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelsFile, "models-file", "my_saved_models.json", "path of the saved models registry")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output", "filtered_data.jsonl", "path of the training set file")
}

// loadRegistry opens the registry over --models-file. Read failures degrade
// to the builtin defaults with a warning on stderr.
func loadRegistry() *registry.Registry {
	store := storage.NewFileStore(modelsFile)
	reg := registry.New(registry.Builtins(), store, utils.NewLogger("ftctl"))
	if err := reg.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
	}
	return reg
}

// newService wires a provider-backed fine-tune service for the CLI. Job
// history and the status cache stay off here; the server carries those.
func newService() (*finetune.Service, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	provider, err := providers.NewOpenAIClient(providers.OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Timeout: 120 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return finetune.NewService(finetune.ServiceConfig{
		Provider:   provider,
		Registry:   loadRegistry(),
		OutputPath: outputFile,
		Logger:     utils.NewLogger("ftctl"),
	}), nil
}

// openInputs opens the CSV files named on the command line.
func openInputs(paths []string) ([]trainingset.NamedReader, func(), error) {
	var files []*os.File
	cleanup := func() {
		for _, f := range files {
			f.Close()
		}
	}

	inputs := make([]trainingset.NamedReader, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		files = append(files, f)
		inputs = append(inputs, trainingset.NamedReader{Name: path, Reader: f})
	}
	return inputs, cleanup, nil
}

func printWarnings(errs []error) {
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}
