package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-notetaker/internal/usecase/analytics"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/participant"
	"github.com/johnquangdev/meeting-notetaker/internal/usecase/transcript"
)

func newSegmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segment [file]",
		Short: "Split a transcript into speaker segments",
		Example: `  notetakerctl segment meeting.txt
  cat meeting.txt | notetakerctl segment -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			parsed := transcript.Parse(text)
			out := map[string]interface{}{
				"format":   parsed.Format,
				"segments": parsed.Segments,
				"speakers": transcript.Speakers(parsed.Segments),
			}
			if done, err := render(cmd.OutOrStdout(), out); done {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Format: %s, %d segment(s)\n\n", parsed.Format, len(parsed.Segments))
			for _, s := range parsed.Segments {
				fmt.Fprintf(w, "[%s] %s-%s  %s\n",
					s.Speaker,
					transcript.FormatTimestamp(int(s.StartTime)),
					transcript.FormatTimestamp(int(s.EndTime)),
					s.Text,
				)
			}
			return nil
		},
	}
}

func newParticipantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "participants [file]",
		Short: "List the human speakers of a transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			res := participant.Resolve(participant.Input{TranscriptText: text})
			if done, err := render(cmd.OutOrStdout(), res); done {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Participants (%d, source %s):\n", res.Count, res.Source)
			for _, name := range res.Names {
				fmt.Fprintf(w, "  %s\n", name)
			}
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run the meeting deep dive on a transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			dive := analytics.Analyze(text, owner)
			if done, err := render(cmd.OutOrStdout(), dive); done {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Speaker shares:")
			for _, s := range dive.SpeakerShares {
				fmt.Fprintf(w, "  %-30s %3d%%\n", s.Name, s.Percentage)
			}
			fmt.Fprintf(w, "\nBusiness %d%%, small talk %d%%\n",
				dive.ContentBreakdown.Business, dive.ContentBreakdown.SmallTalk)
			printList(cmd, "Open questions", dive.OpenQuestions)
			printList(cmd, "Customer needs", dive.CustomerNeeds)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Email of the account owner; other speakers count as customers")
	return cmd
}

func printList(cmd *cobra.Command, title string, items []string) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
