package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ashfaaq98/evidence-console/internal/api"
	"github.com/Ashfaaq98/evidence-console/internal/workspace"
)

var (
	evidenceKind   string
	evidenceCaseID string
	uploadCamID    string
	uploadGPSLat   float64
	uploadGPSLng   float64
)

// evidenceCmd represents the evidence command group
var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "List, upload, and delete evidence files",
}

var evidenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List evidence files by media type",
	Long: `List evidence files from the backend, grouped by upload date.

Examples:
  evidence-console evidence list
  evidence-console evidence list --type image`,
	RunE: runEvidenceList,
}

var evidenceUploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload evidence files to a case",
	Long: `Upload local files to a case as one batch. All files in the
batch share a camera id and optional GPS coordinates.

Examples:
  evidence-console evidence upload --case case-123 cam1.mp4 cam2.mp4
  evidence-console evidence upload --case case-123 --cam-id CAM-N-01 --gps-lat 40.7 --gps-lng -74.0 door.mp4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvidenceUpload,
}

var evidenceDeleteCmd = &cobra.Command{
	Use:   "delete [evidence-id]",
	Short: "Delete one evidence file",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvidenceDelete,
}

func init() {
	rootCmd.AddCommand(evidenceCmd)
	evidenceCmd.AddCommand(evidenceListCmd)
	evidenceCmd.AddCommand(evidenceUploadCmd)
	evidenceCmd.AddCommand(evidenceDeleteCmd)

	evidenceListCmd.Flags().StringVar(&evidenceKind, "type", "video", "Media type: video, image, audio")
	evidenceUploadCmd.Flags().StringVar(&evidenceCaseID, "case", "", "Case id to attach the files to (required)")
	evidenceUploadCmd.Flags().StringVar(&uploadCamID, "cam-id", "", "Camera id for the batch (generated when empty)")
	evidenceUploadCmd.Flags().Float64Var(&uploadGPSLat, "gps-lat", 0, "GPS latitude for the batch")
	evidenceUploadCmd.Flags().Float64Var(&uploadGPSLng, "gps-lng", 0, "GPS longitude for the batch")
	evidenceUploadCmd.MarkFlagRequired("case")
}

func newBackendClient() (*api.Client, error) {
	config := GetConfig()
	logger := log.New(os.Stderr, "[evidence] ", log.LstdFlags)
	return api.NewClient(config.API.BaseURL, config.API.Token, logger)
}

func runEvidenceList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := newBackendClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	kind := api.MediaKind(evidenceKind)
	res := client.ListEvidence(ctx, kind)
	files := res.Data
	degraded := false
	if !res.Success {
		color.New(color.FgYellow).Fprintf(os.Stderr, "Backend unreachable (%s), showing sample data\n", res.Message)
		files = workspace.SampleEvidence(kind)
		degraded = true
	}

	if len(files) == 0 {
		fmt.Println("No evidence files found.")
		return nil
	}

	dateHeader := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.FgHiBlack)
	for _, group := range workspace.GroupByDate(files) {
		dateHeader.Println(group.Date)
		for _, f := range group.Files {
			fmt.Printf("  %-40s ", f.Name)
			muted.Printf("%-8s %-10s %s\n", f.Kind, f.UploadTime, f.ID)
		}
	}
	if degraded {
		muted.Println("(sample data)")
	}
	return nil
}

func runEvidenceUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := newBackendClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	camID := uploadCamID
	if camID == "" {
		camID = api.GenerateCamID()
		fmt.Printf("Using generated camera id %s\n", camID)
	}

	opts := api.UploadOptions{CamID: camID}
	if cmd.Flags().Changed("gps-lat") || cmd.Flags().Changed("gps-lng") {
		opts.GPSLat = uploadGPSLat
		opts.GPSLng = uploadGPSLng
	}

	res := client.UploadEvidencePaths(ctx, evidenceCaseID, args, opts)
	if !res.Success {
		return fmt.Errorf("upload: %s", res.Message)
	}

	success := color.New(color.FgGreen)
	failure := color.New(color.FgRed)
	for _, r := range res.Data.Results {
		if r.Success {
			success.Printf("  ok  %s -> %s\n", r.Filename, r.EvidenceID)
		} else {
			failure.Printf("fail  %s: %s\n", r.Filename, r.Error)
		}
	}
	fmt.Printf("Batch %s: %d uploaded, %d failed\n",
		res.Data.BatchID, res.Data.SuccessfulUploads, res.Data.FailedUploads)
	if res.Data.FailedUploads > 0 {
		return fmt.Errorf("%d of %d files failed to upload", res.Data.FailedUploads, res.Data.TotalFiles)
	}
	return nil
}

func runEvidenceDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := newBackendClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	res := client.DeleteEvidence(ctx, args[0])
	if !res.Success {
		return fmt.Errorf("delete evidence: %s", res.Message)
	}
	color.New(color.FgGreen).Printf("Deleted evidence %s\n", args[0])
	return nil
}
