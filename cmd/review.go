package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/itemsmith/internal/app"
	"github.com/abhisek/itemsmith/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review <csv>",
	Short: "Open a question CSV in the Refinement Workshop",
	Long: "Browse the questions in a CSV, edit any field, and save the batch back.\n" +
		"Use --out to save to a different file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := review.Open(args[0])
		if err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			ws = review.NewWorkshop(out, ws.Questions())
		}
		return app.Run(review.New(ws))
	},
}

func init() {
	reviewCmd.Flags().StringP("out", "o", "", "Save to this file instead of overwriting the input")
}
