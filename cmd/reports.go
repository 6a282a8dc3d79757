package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dmelnis/screengate/internal/logger"
	"github.com/dmelnis/screengate/internal/store"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect stored score reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		withStore(func(ctx context.Context, st *store.Store, _ *zap.Logger) (any, error) {
			limit, _ := cmd.Flags().GetInt("limit")
			return st.List(ctx, limit)
		})
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show one stored report in full",
	Run: func(cmd *cobra.Command, _ []string) {
		withStore(func(ctx context.Context, st *store.Store, _ *zap.Logger) (any, error) {
			return resolveReport(ctx, cmd, st)
		})
	},
}

var reportsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the recruiter summary for one stored report",
	Run: func(cmd *cobra.Command, _ []string) {
		withStore(func(ctx context.Context, st *store.Store, _ *zap.Logger) (any, error) {
			saved, err := resolveReport(ctx, cmd, st)
			if err != nil {
				return nil, err
			}
			return store.Summarize(saved), nil
		})
	},
}

var reportsInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show aggregate outcomes across all stored reports",
	Run: func(_ *cobra.Command, _ []string) {
		withStore(func(ctx context.Context, st *store.Store, _ *zap.Logger) (any, error) {
			return st.Insights(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsSummaryCmd, reportsInsightsCmd)

	reportsListCmd.Flags().Int("limit", 20, "maximum number of reports to list")

	for _, cmd := range []*cobra.Command{reportsShowCmd, reportsSummaryCmd} {
		cmd.Flags().String("id", "", "report id (interactive selection when omitted)")
		cmd.Flags().String("subject", "", "pick the latest report for a subject instead of an id")
		cmd.MarkFlagsMutuallyExclusive("id", "subject")
	}
}

// withStore opens the configured store, runs the query and prints the result
// as indented json.
func withStore(query func(context.Context, *store.Store, *zap.Logger) (any, error)) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	st, err := store.Open(config.StorePath)
	if err != nil {
		logger.Fatal("opening report store", zap.Error(err))
	}
	defer st.Close()

	result, err := query(ctx, st, logger)
	if err != nil {
		logger.Fatal("querying report store", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(pretty))
}

// resolveReport picks the stored report the flags point at, falling back to an
// interactive prompt over the recent listings.
func resolveReport(ctx context.Context, cmd *cobra.Command, st *store.Store) (*store.SavedReport, error) {
	if id, _ := cmd.Flags().GetString("id"); id != "" {
		return st.Get(ctx, id)
	}
	if subject, _ := cmd.Flags().GetString("subject"); subject != "" {
		return st.Latest(ctx, subject)
	}

	listings, err := st.List(ctx, 20)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, store.ErrNotFound
	}

	items := make([]string, 0, len(listings))
	for _, listing := range listings {
		items = append(items, fmt.Sprintf("%s %s %s %.1f %s",
			listing.ID, listing.CreatedAt.Format("2006-01-02 15:04"),
			listing.Subject, listing.FinalScore, listing.Decision))
	}

	prompt := promptui.Select{
		Label: "Choose a report",
		Items: items,
		Size:  10,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("selecting a report: %w", err)
	}

	return st.Get(ctx, strings.Split(selected, " ")[0])
}
