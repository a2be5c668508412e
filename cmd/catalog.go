package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/itemsmith/internal/catalog"
	"github.com/abhisek/itemsmith/internal/itemgen"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "List assessment foci for a question type and CEFR level",
	RunE: func(cmd *cobra.Command, args []string) error {
		typeName, _ := cmd.Flags().GetString("type")
		qtype, err := itemgen.ParseQuestionType(typeName)
		if err != nil {
			return err
		}
		levels, err := levelsFlag(cmd)
		if err != nil {
			return err
		}

		for _, level := range levels {
			fmt.Printf("%s %s\n", qtype, level)
			for _, f := range catalog.Foci(qtype, level) {
				fmt.Printf("  %s\n", f)
			}
		}
		return nil
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topic suggestions per CEFR level",
	RunE: func(cmd *cobra.Command, args []string) error {
		levels, err := levelsFlag(cmd)
		if err != nil {
			return err
		}
		for _, level := range levels {
			fmt.Printf("%s\n", level)
			for _, t := range catalog.Topics(level) {
				fmt.Printf("  %s\n", t)
			}
		}
		return nil
	},
}

// levelsFlag returns the --cefr level, or every level when it is blank.
func levelsFlag(cmd *cobra.Command) ([]itemgen.Level, error) {
	cefr, _ := cmd.Flags().GetString("cefr")
	if cefr == "" {
		return itemgen.Levels, nil
	}
	level, err := itemgen.ParseLevel(cefr)
	if err != nil {
		return nil, err
	}
	return []itemgen.Level{level}, nil
}

func init() {
	focusCmd.Flags().StringP("type", "t", "grammar", "Question type: grammar or vocabulary")
	focusCmd.Flags().StringP("cefr", "c", "", "CEFR level (default: all)")
	topicsCmd.Flags().StringP("cefr", "c", "", "CEFR level (default: all)")
}
