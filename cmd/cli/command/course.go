package command

import (
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"coursehub/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "Browse and enroll in courses",
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search the course catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		for _, name := range []string{"search", "category", "level", "sort"} {
			if v, _ := cmd.Flags().GetString(name); v != "" {
				q.Set(name, v)
			}
		}
		if page, _ := cmd.Flags().GetInt("page"); page > 0 {
			q.Set("page", strconv.Itoa(page))
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := client.NewHTTPClient(apiURL).ListCourses(ctx, q)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tLEVEL\tPRICE\tRATING")
		for _, c := range resp.Courses {
			price := c.FullPrice
			if c.DiscountPrice > 0 {
				price = c.DiscountPrice
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.1f\n", c.ID, c.Title, c.Level, price, c.AverageRating)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d, %d courses\n", resp.CurrentPage, resp.TotalPages, resp.TotalCourses)
		return nil
	},
}

var courseShowCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show a course with its sections and lessons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		course, err := client.NewHTTPClient(apiURL).GetCourse(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n\n", course.Title, course.Subtitle)
		for i, s := range course.Sections {
			fmt.Fprintf(out, "%d. %s\n", i+1, s.Title)
			for j, l := range s.Lessons {
				fmt.Fprintf(out, "   %d.%d %s (%ds) [%s]\n", i+1, j+1, l.Title, l.Duration, l.ID)
			}
		}
		return nil
	},
}

var courseEnrollCmd = &cobra.Command{
	Use:   "enroll <course-id>",
	Short: "Enroll in a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := c.Enroll(ctx, args[0]); err != nil {
			return err
		}
		success(cmd, "Enrolled.")
		return nil
	},
}

var courseLeaveCmd = &cobra.Command{
	Use:   "leave <course-id>",
	Short: "Leave a course and drop its progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		if err := c.Leave(ctx, args[0]); err != nil {
			return err
		}
		success(cmd, "Left the course.")
		return nil
	},
}

func init() {
	courseCmd.AddCommand(courseListCmd, courseShowCmd, courseEnrollCmd, courseLeaveCmd)

	courseListCmd.Flags().StringP("search", "s", "", "search title, subtitle and category")
	courseListCmd.Flags().String("category", "", "exact category")
	courseListCmd.Flags().String("level", "", "beginner, intermediate, advanced or all")
	courseListCmd.Flags().String("sort", "", "newest, price, -price, rating or popular")
	courseListCmd.Flags().Int("page", 0, "page number")
}
