package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/itemsmith/internal/export"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/store"
)

var batchesCmd = &cobra.Command{
	Use:   "batches",
	Short: "Inspect and export stored batch runs",
}

var batchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent batch runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		batches, err := s.BatchRepo().ListBatches(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query batches: %w", err)
		}
		if len(batches) == 0 {
			fmt.Println("No batches found.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-26s  %-10s  %-4s  %-7s  %s\n",
			"ID", "Created", "Strategy", "Type", "CEFR", "Items", "Status")
		fmt.Println(strings.Repeat("─", 118))
		for _, b := range batches {
			fmt.Printf("%-36s  %-16s  %-26s  %-10s  %-4s  %3d/%-3d  %s\n",
				b.ID,
				b.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(b.Strategy, 26),
				b.QuestionType,
				b.CEFR,
				b.Assembled, b.Requested,
				b.Status,
			)
		}
		return nil
	},
}

var batchesViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a batch run with its trace and questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		b, err := s.BatchRepo().GetBatch(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get batch %s: %w", args[0], err)
		}

		sep := strings.Repeat("─", 60)
		fmt.Printf("ID:        %s\n", b.ID)
		fmt.Printf("Time:      %s\n", b.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Strategy:  %s\n", b.Strategy)
		fmt.Printf("Type:      %s %s\n", b.QuestionType, b.CEFR)
		fmt.Printf("Topic:     %s\n", b.Topic)
		fmt.Printf("Items:     %d of %d\n", b.Assembled, b.Requested)
		fmt.Printf("Status:    %s\n", b.Status)
		if b.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", b.ErrorMessage)
		}

		fmt.Println()
		fmt.Println(sep)
		fmt.Println("TRACE")
		fmt.Println(sep)
		for _, line := range b.Trace {
			fmt.Println(line)
		}

		qs, err := batchQuestions(b)
		if err != nil {
			return err
		}
		fmt.Println(sep)
		fmt.Println("QUESTIONS")
		fmt.Println(sep)
		if len(qs) == 0 {
			fmt.Println("(none)")
		}
		for _, q := range qs {
			fmt.Printf("%s. [%s] %s\n", q.ItemNumber, q.AssessmentFocus, q.QuestionPrompt)
			for i, a := range q.Answers() {
				mark := " "
				if itemgen.OptionLetters[i] == q.CorrectAnswer {
					mark = "*"
				}
				fmt.Printf("   %s %s) %s\n", mark, itemgen.OptionLetters[i], a)
			}
		}

		if showStages, _ := cmd.Flags().GetBool("stages"); showStages && len(b.Stages) > 0 {
			fmt.Println(sep)
			fmt.Println("STAGES")
			fmt.Println(sep)
			var pretty any
			if err := json.Unmarshal(b.Stages, &pretty); err == nil {
				out, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Println(string(out))
			}
		}
		return nil
	},
}

var batchesExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a stored batch as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		b, err := s.BatchRepo().GetBatch(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get batch %s: %w", args[0], err)
		}
		qs, err := batchQuestions(b)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return export.Write(os.Stdout, qs)
		}
		if err := export.WriteFile(out, qs); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d questions to %s\n", len(qs), out)
		return nil
	},
}

func batchQuestions(b *store.BatchRecord) ([]itemgen.FinalQuestion, error) {
	var qs []itemgen.FinalQuestion
	if len(b.Questions) == 0 || string(b.Questions) == "null" {
		return qs, nil
	}
	if err := json.Unmarshal(b.Questions, &qs); err != nil {
		return nil, fmt.Errorf("decode questions of batch %s: %w", b.ID, err)
	}
	return qs, nil
}

func init() {
	batchesListCmd.Flags().IntP("limit", "n", 20, "Number of batches to show")
	batchesViewCmd.Flags().Bool("stages", false, "Also print the stage 1-3 records")
	batchesExportCmd.Flags().StringP("out", "o", "", "Write CSV to this file instead of stdout")

	batchesCmd.AddCommand(batchesListCmd)
	batchesCmd.AddCommand(batchesViewCmd)
	batchesCmd.AddCommand(batchesExportCmd)
}
