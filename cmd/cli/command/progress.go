package command

import (
	"fmt"
	"text/tabwriter"

	"coursehub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// progressCmd represents the progress command
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Track lesson progress",
}

var progressInitCmd = &cobra.Command{
	Use:   "init <course-id>",
	Short: "Start tracking progress for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if _, err := c.InitProgress(ctx, args[0]); err != nil {
			return err
		}
		success(cmd, "Progress initialized.")
		return nil
	},
}

var progressShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show progress per section and lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := c.GetProgress(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d/%d lessons completed (%.1f%%)\n\n",
			report.CompletedLessons, report.TotalLessons, report.PercentageCompleted*100)
		for _, s := range report.Progress.Sections {
			headColor.Fprintf(out, "%s  %d/%d\n", s.Title, s.CompletedLessonsInSection, s.TotalLessonsInSection)
			for _, l := range s.Lessons {
				mark, paint := "[ ]", dimColor
				if l.Completed {
					mark, paint = "[x]", okColor
				}
				paint.Fprintf(out, "  %s %s  watched %s  notes %d  (%s)\n", mark, l.Title, clock(l.LastWatched), len(l.Notes), l.LessonID)
			}
		}
		return nil
	},
}

var progressUpdateCmd = &cobra.Command{
	Use:   "update <course-id> <lesson-id>",
	Short: "Mark a lesson completed or record the playback position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.UpdateLessonProgressRequest
		if cmd.Flags().Changed("completed") {
			v, _ := cmd.Flags().GetBool("completed")
			req.Completed = &v
		}
		if cmd.Flags().Changed("watched") {
			v, _ := cmd.Flags().GetInt("watched")
			req.LastWatched = &v
		}
		if req.Empty() {
			return fmt.Errorf("pass --completed and/or --watched")
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if _, err := c.UpdateLesson(ctx, args[0], args[1], req); err != nil {
			return err
		}
		success(cmd, "Progress updated.")
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage timestamped lesson notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list <course-id>",
	Short: "List every note in a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sort, _ := cmd.Flags().GetString("sort")

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		notes, err := c.ListNotes(ctx, args[0], sort)
		if err != nil {
			return err
		}
		if len(notes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No notes yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NOTE\tLESSON\tAT\tTEXT")
		for _, n := range notes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.NoteID, n.LessonTitle, clock(n.Seconds), n.Text)
		}
		return w.Flush()
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add <course-id> <lesson-id> <text>",
	Short: "Add a note at a playback position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, _ := cmd.Flags().GetInt("at")

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		note, err := c.AddNote(ctx, args[0], args[1], dto.AddNoteRequest{Seconds: &seconds, Text: args[2]})
		if err != nil {
			return err
		}
		success(cmd, "Note %s added at %s", note.ID, clock(note.Seconds))
		return nil
	},
}

var notesEditCmd = &cobra.Command{
	Use:   "edit <course-id> <lesson-id> <note-id>",
	Short: "Change a note's text or position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.EditNoteRequest
		if cmd.Flags().Changed("text") {
			v, _ := cmd.Flags().GetString("text")
			req.Text = &v
		}
		if cmd.Flags().Changed("at") {
			v, _ := cmd.Flags().GetInt("at")
			req.Seconds = &v
		}
		if req.Empty() {
			return fmt.Errorf("pass --text and/or --at")
		}

		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if _, err := c.EditNote(ctx, args[0], args[1], args[2], req); err != nil {
			return err
		}
		success(cmd, "Note updated.")
		return nil
	},
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <course-id> <lesson-id> <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := c.DeleteNote(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		success(cmd, "Note deleted.")
		return nil
	},
}

// clock renders seconds as m:ss or h:mm:ss.
func clock(seconds int) string {
	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func init() {
	progressCmd.AddCommand(progressInitCmd, progressShowCmd, progressUpdateCmd)
	progressUpdateCmd.Flags().Bool("completed", false, "mark the lesson completed (--completed=false to undo)")
	progressUpdateCmd.Flags().Int("watched", 0, "last watched position in seconds")

	notesCmd.AddCommand(notesListCmd, notesAddCmd, notesEditCmd, notesDeleteCmd)
	notesListCmd.Flags().String("sort", "lesson", "lesson or recent")
	notesAddCmd.Flags().Int("at", 0, "playback position in seconds")
	notesEditCmd.Flags().String("text", "", "new text")
	notesEditCmd.Flags().Int("at", 0, "new playback position in seconds")
}
