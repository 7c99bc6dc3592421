package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"cyoa-server/pkg/ai"
	"cyoa-server/shared/models"

	"github.com/spf13/cobra"
)

var (
	startGenre    string
	advanceParent string
	advanceChoice string
	advancePick   int
	exportOut     string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new story in the given genre",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		screen, err := s.app.Stories.StartStory(ctx, startGenre)
		if err != nil {
			return err
		}
		console.Info().Str("screenID", screen.ScreenID).Msg("Story started")
		printScreen(cmd.OutOrStdout(), screen)
		return nil
	},
}

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Continue a story from a screen with a choice",
	Long: `Continue a story from --parent. The choice is either free text (--choice)
or the 1-based index of one of the parent's options (--pick).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		choice := advanceChoice
		if advancePick > 0 {
			parent, err := s.app.Stories.GetScreen(ctx, advanceParent)
			if err != nil {
				return err
			}
			if advancePick > len(parent.Choices) {
				return fmt.Errorf("screen %s has %d choices, cannot pick %d", parent.ScreenID, len(parent.Choices), advancePick)
			}
			choice = parent.Choices[advancePick-1]
		}

		screen, err := s.app.Stories.AdvanceStory(ctx, advanceParent, choice)
		if err != nil {
			return err
		}
		console.Info().Str("screenID", screen.ScreenID).Str("choice", choice).Msg("Story advanced")
		printScreen(cmd.OutOrStdout(), screen)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show SCREEN_ID",
	Short: "Print a stored screen and its explored branches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		screen, err := s.app.Stories.GetScreen(ctx, args[0])
		if err != nil {
			return err
		}
		printScreen(cmd.OutOrStdout(), screen)

		children, err := s.app.Stories.Children(ctx, screen.ScreenID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Explored branches:")
			for _, child := range children {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", child.ScreenID, firstLine(child.StoryText))
			}
		}
		return nil
	},
}

var lineageCmd = &cobra.Command{
	Use:   "lineage SCREEN_ID",
	Short: "Print the path from the story root to a screen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		path, err := s.app.Stories.Lineage(ctx, args[0])
		if err != nil {
			return err
		}
		for i, screen := range path {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s  %s\n", i+1, screen.ScreenID, firstLine(screen.StoryText))
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export SCREEN_ID",
	Short: "Write the story path ending at a screen as a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		out := exportOut
		if out == "" {
			out = args[0] + ".pdf"
		}

		s, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := s.app.Stories.ExportTranscriptPDF(ctx, args[0], f); err != nil {
			_ = f.Close()
			_ = os.Remove(out)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		console.Info().Str("file", out).Msg("Transcript written")
		return nil
	},
}

func init() {
	startCmd.Flags().StringVarP(&startGenre, "genre", "g", "", "Story genre, e.g. noir or military-scifi")

	advanceCmd.Flags().StringVarP(&advanceParent, "parent", "p", "", "Screen to continue from")
	advanceCmd.Flags().StringVarP(&advanceChoice, "choice", "c", "", "Choice text")
	advanceCmd.Flags().IntVar(&advancePick, "pick", 0, "Pick one of the parent's choices by number")
	advanceCmd.MarkFlagsMutuallyExclusive("choice", "pick")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default SCREEN_ID.pdf)")

	rootCmd.AddCommand(startCmd, advanceCmd, showCmd, lineageCmd, exportCmd)
}

func printScreen(w io.Writer, s *models.Screen) {
	fmt.Fprintf(w, "Screen %s (%s)\n", s.ScreenID, s.Genre)
	if !s.IsRoot() {
		fmt.Fprintf(w, "Parent %s\n", *s.ParentID)
	}
	fmt.Fprintf(w, "\n%s\n\n", s.StoryText)
	for i, choice := range s.Choices {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, choice)
	}
	fmt.Fprintf(w, "\nLandscape: %s\nPortrait:  %s\n", s.LandscapeURL, s.PortraitURL)
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return ai.TruncateRunes(line, 72)
}
