/*
Package termplay renders still images and plays animated GIFs inside
terminal emulators.

The package classifies the host terminal from environment signals and picks
the best available output: iTerm2 inline images on terminals that render
images natively, the Kitty graphics protocol on terminals that speak it,
Sixel where supported, and a universal 24-bit halfblock fallback everywhere
else. Any strategy failure downgrades to the next; a structurally valid
image always renders.

Still images:

	out, err := termplay.RenderFile("gopher.png", termplay.Options{
	    Width: termplay.Percent(50),
	})

Animations loop until stopped via the returned handle:

	playback, err := termplay.PlayFile("dance.gif", termplay.AnimateOptions{
	    MaxFrameRate: 24,
	})
	if err != nil {
	    log.Fatal(err)
	}
	defer playback.Stop()

Dimensions accept absolute cell counts or percentages of the terminal
("50%"); aspect ratio is preserved unless Stretch is set. A custom Sink can
take over frame output, and Clock/Scheduler hooks make the playback loop
testable with fake time.

Bubble Tea integration is provided by Model:

	m := termplay.NewAnimationModel(gifBytes, termplay.AnimateOptions{})
	tea.NewProgram(m).Run()
*/
package termplay
