package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finetune_admin/internal/trainingset"
)

var (
	grouped         bool
	selectedSenders []string
	systemPrompt    string
)

var sendersCmd = &cobra.Command{
	Use:   "senders <csv>...",
	Short: "List distinct senders found in email CSV exports",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, cleanup, err := openInputs(args)
		if err != nil {
			return err
		}
		defer cleanup()

		rows, parseErrs := trainingset.ExtractRows(inputs)
		printWarnings(parseErrs)

		senders := trainingset.DistinctSenders(rows)
		if grouped {
			for _, group := range trainingset.GroupByFirstToken(senders) {
				fmt.Println(group.Display())
			}
			return nil
		}
		for _, sender := range senders {
			fmt.Println(sender)
		}
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build <csv>...",
	Short: "Build a JSONL training set from email CSV exports",
	Long: `build filters the rows of the given CSV exports down to the selected
senders and writes one chat-format training example per matching email
to the --output file. Selections may be full sender values or group
labels such as "Alice (All variations)".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(selectedSenders) == 0 {
			return fmt.Errorf("pick at least one sender with --sender")
		}

		inputs, cleanup, err := openInputs(args)
		if err != nil {
			return err
		}
		defer cleanup()

		rows, parseErrs := trainingset.ExtractRows(inputs)
		printWarnings(parseErrs)

		groups := trainingset.GroupByFirstToken(trainingset.DistinctSenders(rows))
		selected := trainingset.ExpandSelection(groups, selectedSenders)

		count, err := trainingset.BuildFile(outputFile, rows, selected, systemPrompt)
		if err != nil {
			return err
		}
		if count == 0 {
			fmt.Println("no rows found for those senders")
			return nil
		}
		fmt.Printf("wrote %d examples to %s\n", count, outputFile)
		return nil
	},
}

func init() {
	sendersCmd.Flags().BoolVar(&grouped, "group", false, "collapse senders sharing a first name")
	buildCmd.Flags().StringArrayVar(&selectedSenders, "sender", nil, "sender (or group label) to include; repeatable")
	buildCmd.Flags().StringVar(&systemPrompt, "system-prompt", "", "optional system prompt for every example")
	rootCmd.AddCommand(sendersCmd, buildCmd)
}
