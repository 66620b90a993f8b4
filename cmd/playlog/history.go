package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"playlog/internal/storage/sqlstore"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [database-file]",
	Short: "Print the most recently recorded plays.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit <= 0 {
			return fmt.Errorf("--limit must be positive, got %d", historyLimit)
		}

		cfg, _, err := loadConfig(args)
		if err != nil {
			return err
		}

		db, err := openDatabase(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		plays, err := sqlstore.NewPlayStore(db).Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PLAYED AT\tTITLE\tARTIST")
		for _, p := range plays {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				time.UnixMilli(p.PlayedAt).Local().Format(time.DateTime),
				p.Title,
				p.Artist,
			)
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of plays to print")
}
