package ui

import (
	"fmt"
	"os"
	"strings"
)

// Warn prints a warning message.
func Warn(msg string) {
	fmt.Println(Warning.Render(IconWarn + msg))
}

// Err prints an error message to stderr.
func Err(msg string) {
	fmt.Fprintln(os.Stderr, Error.Bold(true).Render(IconError+msg))
}

// Ok prints a success message.
func Ok(msg string) {
	fmt.Println(Success.Render(IconOk + msg))
}

// Header prints a section header with an underline.
func Header(s string) {
	fmt.Println()
	fmt.Println(Title.Render(s))
	fmt.Println(Muted.Render(strings.Repeat("─", len([]rune(s))+2)))
}

// Tip prints a muted hint.
func Tip(msg string) {
	fmt.Println()
	fmt.Println(Muted.Render("  tip: " + msg))
}

// Kv prints a key-value pair, padded.
func Kv(key string, value string) {
	k := KeyStyle.Render(fmt.Sprintf("  %-12s", key))
	v := ValueStyle.Render(value)
	fmt.Printf("%s %s\n", k, v)
}

// Greet returns the dashboard greeting.
func Greet(name string) string {
	if name == "" {
		return IconTriage + "Hey there!"
	}
	return fmt.Sprintf("%sHey %s!", IconTriage, name)
}
