package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphaelgruber/commnet/internal/client"
	"github.com/spf13/cobra"
)

var uploadName string

var uploadCmd = &cobra.Command{
	Use:   "upload <archive.zip>",
	Short: "Upload a match archive for analysis",
	Long: `Upload a zipped match (voice logs, timeline and player data) to the
analysis server. Without --name the file name minus its extension is used
as the match code.

Examples:
  commnet upload scrim-0412.zip
  commnet upload game3.zip --name "LCK-W3-G3"`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "match code (default: file name)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	filename := filepath.Base(path)
	id, err := apiClient.SubmitMatch(cmd.Context(), filename, f, uploadName)
	if err != nil {
		return fmt.Errorf("upload %s: %w", filename, err)
	}

	theme := themeFor(os.Stdout)
	fmt.Fprintln(cmd.OutOrStdout(), theme.completedStyle().Render(
		fmt.Sprintf("✓ Uploaded %s as match #%d", client.UploadName(uploadName, filename), id)))
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "  Analyse with: commnet analyze %d\n", id)
	}
	return nil
}
