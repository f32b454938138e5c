package download

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressBar renders a single download progress bar on interactive
// terminals and stays silent otherwise.
type ProgressBar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewProgressBar creates a progress bar for the named artifact, writing to w.
// On non-TTY output the bar is disabled and Callback returns nil.
func NewProgressBar(w io.Writer, name string) *ProgressBar {
	if f, ok := w.(*os.File); !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return &ProgressBar{}
	}

	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	bar := p.AddBar(0,
		mpb.PrependDecorators(
			decor.Name("  "+name+" ", decor.WC{W: len(name) + 3, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.CountersKibiByte("% .1f / % .1f"),
			decor.OnComplete(decor.Name(""), " done"),
		),
	)

	return &ProgressBar{progress: p, bar: bar}
}

// Callback returns the ProgressCallback feeding this bar, or nil when
// the bar is disabled.
func (p *ProgressBar) Callback() ProgressCallback {
	if p.bar == nil {
		return nil
	}
	return func(downloaded, total int64) {
		if total > 0 {
			p.bar.SetTotal(total, false)
		}
		p.bar.SetCurrent(downloaded)
	}
}

// Wait completes the bar and waits for the render goroutine.
func (p *ProgressBar) Wait() {
	if p.progress == nil {
		return
	}
	p.bar.SetTotal(-1, true)
	p.progress.Wait()
}
