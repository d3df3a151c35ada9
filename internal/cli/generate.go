package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"bubblehead/internal/client"
	"bubblehead/internal/progress"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Upload a photo and download the helmet version",
		Args:  cobra.NoArgs,
		RunE:  generateHandler,
	}
	cmd.Flags().StringP("image", "i", "", "Photo to upload")
	cmd.Flags().StringP("style", "s", "", "Helmet style (see 'bubblehead styles')")
	cmd.Flags().StringP("output", "o", "", "Where to save the result (default bubbleheads-helmet-<id>.png)")
	return cmd
}

func generateHandler(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("image")
	style, _ := cmd.Flags().GetString("style")
	output, _ := cmd.Flags().GetString("output")

	if path == "" {
		return userMessage(client.ErrNoImage)
	}

	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()
	fmt.Fprintln(stderr, describeImage(path))

	c, err := newAPIClient(cmd)
	if err != nil {
		return err
	}

	var spinner *progress.Spinner
	if isTerminal(stderr) {
		spinner = progress.NewSpinner(stderr, "Generating")
	}
	image, err := c.Generate(cmd.Context(), client.Submission{Path: path, Style: style})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return userMessage(err)
	}

	if output == "" && !isTerminal(stdout) {
		data, err := client.Decode(image)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	saved, err := client.SaveImage(image, output)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "Saved %s\n", saved)
	return nil
}

// userError is an error whose text is meant for the person at the terminal.
type userError string

func (e userError) Error() string { return string(e) }

// userMessage swaps client errors for the text the user should see.
func userMessage(err error) error {
	var apiErr *client.Error
	switch {
	case errors.Is(err, client.ErrNoImage):
		return userError(client.NoImageMessage)
	case errors.As(err, &apiErr):
		return userError(apiErr.Error())
	default:
		return err
	}
}

// describeImage decodes the photo locally so the user sees what is about to
// be uploaded.
func describeImage(path string) string {
	name := filepath.Base(path)
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Sprintf("Selected %s (could not preview: %v)", name, err)
	}
	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToUpper(f.String())
	}
	b := img.Bounds()
	return fmt.Sprintf("Selected %s (%s, %dx%d)", name, format, b.Dx(), b.Dy())
}
