package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/imgzip/imgzip"
)

func main() {
	var password string
	flag.StringVar(&password, "p", "", "password for AES-256 encrypted archive entries")
	flag.StringVar(&password, "password", "", "password for AES-256 encrypted archive entries (same as -p)")
	var (
		ask       = flag.Bool("ask", false, "prompt for the password on the terminal instead of -p")
		overlayQR = flag.Bool("overlay", false, "composite a QR code of the password onto the cover image")
		quietZone = flag.Bool("quiet-zone", true, "render the QR code with its quiet zone border")
		position  = flag.String("position", "top-left", "QR code position: top-left, top-right, bottom-left, bottom-right, center")
		fg        = flag.String("fg", "#000000ff", "QR code foreground as a CSS color")
		bg        = flag.String("bg", "#ffffffff", "QR code background as a CSS color")
		output    = flag.String("o", "", "output filename (default derived from the cover image)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: imgzip [flags] <cover-image> [path...]\n\n")
		fmt.Fprintf(os.Stderr, "Bundle files and directories into a ZIP archive hidden behind a cover\n")
		fmt.Fprintf(os.Stderr, "image. The output opens as an image in a viewer and as an archive in a\n")
		fmt.Fprintf(os.Stderr, "ZIP reader.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	lg := log.New(os.Stderr, "", log.LstdFlags)

	if *ask {
		if password != "" {
			lg.Fatal("-ask cannot be combined with -p")
		}
		pw, err := promptPassword()
		if err != nil {
			lg.Fatal(err)
		}
		password = pw
	}

	err := imgzip.Run(imgzip.Options{
		Image:      flag.Arg(0),
		Paths:      flag.Args()[1:],
		Output:     *output,
		Password:   password,
		OverlayQR:  *overlayQR,
		QuietZone:  *quietZone,
		Position:   *position,
		Foreground: *fg,
		Background: *bg,
		Log:        lg,
	})
	if err != nil {
		lg.Fatal(err)
	}
}

// promptPassword reads the password twice from the terminal with echo
// disabled.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal, pass the password with -p")
	}
	fmt.Fprint(os.Stderr, "Enter password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return "", fmt.Errorf("empty password")
	}
	fmt.Fprint(os.Stderr, "Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(pw, confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pw), nil
}
