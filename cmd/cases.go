package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/evidence-console/internal/api"
	"github.com/Ashfaaq98/evidence-console/internal/store"
)

var (
	createTitle       string
	createDescription string
)

// casesCmd represents the cases command group
var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "List and create investigation cases",
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases from the backend",
	Long: `List all cases known to the backend, falling back to the local
cache when the backend is unreachable.

Examples:
  # List all cases
  evidence-console cases list`,
	RunE: runCasesList,
}

var casesShowCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show one case",
	Long: `Show a single case by id, falling back to the local cache when the
backend is unreachable.

Examples:
  evidence-console cases show demo-traffic-case`,
	Args: cobra.ExactArgs(1),
	RunE: runCasesShow,
}

var casesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new case",
	Long: `Create a new case on the backend.

Examples:
  evidence-console cases create --title "Warehouse break-in" --description "Night shift footage"`,
	RunE: runCasesCreate,
}

func init() {
	rootCmd.AddCommand(casesCmd)
	casesCmd.AddCommand(casesListCmd)
	casesCmd.AddCommand(casesShowCmd)
	casesCmd.AddCommand(casesCreateCmd)

	casesCreateCmd.Flags().StringVar(&createTitle, "title", "", "Case title (required)")
	casesCreateCmd.Flags().StringVar(&createDescription, "description", "", "Case description")
	casesCreateCmd.MarkFlagRequired("title")
}

func runCasesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[cases] ", log.LstdFlags)

	client, err := api.NewClient(config.API.BaseURL, config.API.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	header := color.New(color.FgYellow, color.Bold)
	muted := color.New(color.FgHiBlack)
	warn := color.New(color.FgYellow)

	res := client.ListCases(ctx)
	cases := res.Data
	if !res.Success {
		warn.Fprintf(os.Stderr, "Backend unreachable (%s), using local cache\n", res.Message)
		st, err := store.NewStore(config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer st.Close()
		cases, err = st.ListCases(ctx)
		if err != nil {
			return fmt.Errorf("failed to read cached cases: %w", err)
		}
	} else {
		// Refresh the cache opportunistically
		if st, err := store.NewStore(config.Database.Path); err == nil {
			if err := st.SaveCases(ctx, cases); err != nil {
				logger.Printf("cache write failed: %v", err)
			}
			st.Close()
		}
	}

	if len(cases) == 0 {
		fmt.Println("No cases found.")
		return nil
	}

	header.Printf("%-28s %-12s %8s  %s\n", "ID", "STATUS", "FILES", "TITLE")
	for _, c := range cases {
		statusColor := statusColorFor(c.Status)
		fmt.Printf("%-28s ", c.ID)
		statusColor.Printf("%-12s ", c.Status)
		fmt.Printf("%8d  %s\n", c.EvidenceCount, c.Title)
		if c.Description != "" {
			muted.Printf("%-28s %s\n", "", c.Description)
		}
	}
	return nil
}

func runCasesShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[cases] ", log.LstdFlags)
	caseID := args[0]

	client, err := api.NewClient(config.API.BaseURL, config.API.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	warn := color.New(color.FgYellow)
	muted := color.New(color.FgHiBlack)

	res := client.GetCase(ctx, caseID)
	c := res.Data
	if !res.Success {
		if res.Message == "Case not found" {
			return fmt.Errorf("case %s not found", caseID)
		}
		warn.Fprintf(os.Stderr, "Backend unreachable (%s), using local cache\n", res.Message)
		st, err := store.NewStore(config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer st.Close()
		c, err = st.GetCase(ctx, caseID)
		if err != nil {
			return fmt.Errorf("case %s not in local cache: %w", caseID, err)
		}
	} else {
		if st, err := store.NewStore(config.Database.Path); err == nil {
			if err := st.SaveCase(ctx, c); err != nil {
				logger.Printf("cache write failed: %v", err)
			}
			st.Close()
		}
	}

	fmt.Printf("ID:       %s\n", c.ID)
	fmt.Printf("Title:    %s\n", c.Title)
	fmt.Printf("Status:   ")
	statusColorFor(c.Status).Printf("%s\n", c.Status)
	fmt.Printf("Evidence: %d files\n", c.EvidenceCount)
	if c.Description != "" {
		muted.Printf("\n%s\n", c.Description)
	}
	fmt.Printf("\nOpen it with: evidence-console serve --case %s\n", c.ID)
	return nil
}

func runCasesCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	config := GetConfig()
	logger := log.New(os.Stderr, "[cases] ", log.LstdFlags)

	client, err := api.NewClient(config.API.BaseURL, config.API.Token, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	res := client.CreateCase(ctx, api.CreateCasePayload{
		Title:       createTitle,
		Description: createDescription,
	})
	if !res.Success {
		return fmt.Errorf("create case: %s", res.Message)
	}

	success := color.New(color.FgGreen)
	success.Printf("Created case %s\n", res.Data.ID)
	fmt.Printf("Open it with: evidence-console serve --case %s\n", res.Data.ID)
	return nil
}

func statusColorFor(status api.CaseStatus) *color.Color {
	switch status {
	case api.CaseCompleted:
		return color.New(color.FgGreen)
	case api.CaseFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}
