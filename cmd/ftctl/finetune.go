package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finetune_admin/internal/finetune"
	"finetune_admin/internal/models"
)

var (
	baseModel    string
	nEpochs      int
	batchSize    int
	learningRate float64
)

var finetuneCmd = &cobra.Command{
	Use:   "finetune",
	Short: "Upload the training set and start a fine-tune job",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return err
		}

		jobID, err := service.Start(cmd.Context(), baseModel, finetune.Hyperparameters{
			NEpochs:                nEpochs,
			BatchSize:              batchSize,
			LearningRateMultiplier: learningRate,
		})
		if err != nil {
			return err
		}

		fmt.Printf("fine-tune job created: %s\n", jobID)
		fmt.Println("run 'ftctl status " + jobID + "' to track it")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Check a fine-tune job and record its model when done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := newService()
		if err != nil {
			return err
		}

		result, err := service.Check(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		status := result.Status
		switch status.Status {
		case models.JobStatusSucceeded:
			fmt.Printf("succeeded: %s\n", status.FineTunedModel)
			if result.RecordedAlias != "" {
				fmt.Printf("saved to registry as %s\n", result.RecordedAlias)
			}
		case models.JobStatusFailed:
			fmt.Printf("failed: %s\n", status.Message)
		default:
			fmt.Println("still running, check back later")
		}
		return nil
	},
}

func init() {
	finetuneCmd.Flags().StringVar(&baseModel, "base-model", "gpt-3.5-turbo", "base model to fine-tune")
	finetuneCmd.Flags().IntVar(&nEpochs, "epochs", 1, "number of training epochs")
	finetuneCmd.Flags().IntVar(&batchSize, "batch-size", 8, "training batch size")
	finetuneCmd.Flags().Float64Var(&learningRate, "learning-rate", 0.05, "learning rate multiplier")
	rootCmd.AddCommand(finetuneCmd, statusCmd)
}
