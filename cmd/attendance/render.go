package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"doggy-daycare/internal/domain/attendance"
)

func printDay(w io.Writer, v attendance.DayView) error {
	fmt.Fprintf(w, "%s  %s  (%d/%d checked in)\n\n", v.Date.Weekday(), v.Date, v.CheckedIn, v.Total)
	if len(v.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No bookings.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tDOG\tBREED\tOWNER\tMOBILE\tEXPECTED\tACTUAL\tACTION\tBOOKING")
	for _, e := range v.Entries {
		action := "-"
		if e.Action.Enabled {
			action = e.Action.Label
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s-%s\t%s\t%s\t%s\n",
			e.Status,
			e.DogName,
			orDash(e.DogBreed),
			e.OwnerName,
			e.OwnerMobile,
			e.ExpectedCheckIn, e.ExpectedCheckOut,
			actual(e.ActualCheckIn, e.ActualCheckOut),
			action,
			e.BookingID,
		)
	}
	return tw.Flush()
}

func printWeek(w io.Writer, v attendance.WeekView) error {
	fmt.Fprintf(w, "Week %d/%d  %s - %s\n\n", v.Week, v.Year, v.Start, v.End)
	if len(v.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No bookings.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	head := []string{"DOG", "OWNER"}
	for _, d := range v.Days {
		head = append(head, d.Weekday().String()[:3]+" "+d.String())
	}
	fmt.Fprintln(tw, strings.Join(head, "\t"))

	for _, row := range v.Rows {
		cells := []string{row.DogName, row.OwnerName}
		for _, s := range row.Slots {
			cells = append(cells, s.String())
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func actual(in, out string) string {
	if in == "" {
		return "-"
	}
	if out == "" {
		return in + "-"
	}
	return in + "-" + out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
