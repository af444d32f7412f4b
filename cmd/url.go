package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/query"
	"github.com/bascanada/logexplorer/pkg/log/printer"
)

var (
	urlMode    string
	urlInclude []string
	urlExclude []string
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Decode or build exploration share links",
}

var urlDecodeCmd = &cobra.Command{
	Use:   "decode <link|query>",
	Short: "Print the state carried by a share link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := RunURLDecode(os.Stdout, args[0]); err != nil {
			fail(err)
		}
	},
}

var urlEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build a share link from a mode and patterns",
	Run: func(cmd *cobra.Command, args []string) {
		if err := RunURLEncode(os.Stdout, urlMode, urlInclude, urlExclude); err != nil {
			fail(err)
		}
	},
}

type decodedURL struct {
	Mode     *string                `json:"mode,omitempty"`
	Patterns []query.AppliedPattern `json:"patterns"`
}

// RunURLDecode prints the mode and patterns of link as JSON. Malformed
// patterns are an error.
func RunURLDecode(w io.Writer, link string) error {
	values, err := explore.ParseShareURL(link)
	if err != nil {
		return err
	}

	var out decodedURL
	if mode, ok := values[explore.URLKeyMode]; ok {
		if _, err := explore.ParseMode(mode); err != nil {
			return fmt.Errorf("%w: %v", explore.ErrMalformedURLState, err)
		}
		out.Mode = &mode
	}
	if raw := values[explore.URLKeyPatterns]; raw != "" {
		if out.Patterns, err = explore.DecodePatterns(raw); err != nil {
			return err
		}
	}
	if out.Patterns == nil {
		out.Patterns = []query.AppliedPattern{}
	}
	return printer.PrintJSON(w, out)
}

// RunURLEncode prints the share link of an exploration in mode with the
// given patterns.
func RunURLEncode(w io.Writer, mode string, include, exclude []string) error {
	flags := explorationFlags{mode: mode, include: include, exclude: exclude}
	if flags.mode == "" {
		flags.mode = string(explore.ModeLogs)
	}
	e, err := flags.build(nil, nil, nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, explore.ShareURL(e.GetURLState()))
	return err
}

func init() {
	urlEncodeCmd.Flags().StringVar(&urlMode, "mode", string(explore.ModeLogs), "mode of the link: start or logs")
	urlEncodeCmd.Flags().StringArrayVar(&urlInclude, "include", []string{}, "include pattern, repeatable")
	urlEncodeCmd.Flags().StringArrayVar(&urlExclude, "exclude", []string{}, "exclude pattern, repeatable")

	urlCmd.AddCommand(urlDecodeCmd)
	urlCmd.AddCommand(urlEncodeCmd)
}
