package progress

import (
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar renders analysis progress as a terminal progress bar. One bar per
// phase that reports a determinate total; indeterminate phases only update
// the trailing message.
type Bar struct {
	container *mpb.Progress
	bar       *mpb.Bar
	phase     Phase
}

// NewBar creates an mpb-backed reporter for interactive runs.
func NewBar() *Bar {
	return &Bar{container: mpb.New(mpb.WithWidth(60))}
}

func (b *Bar) Report(e Event) {
	if e.Phase != b.phase {
		if b.bar != nil {
			b.bar.SetTotal(-1, true)
		}
		b.phase = e.Phase
		b.bar = nil
		if e.Total > 0 {
			b.bar = b.container.AddBar(int64(e.Total),
				mpb.PrependDecorators(
					decor.Name(fmt.Sprintf("%-18s", string(e.Phase)), decor.WCSyncSpaceR),
					decor.CountersNoUnit("%d / %d"),
				),
				mpb.AppendDecorators(decor.Percentage()),
			)
		}
	}
	if b.bar != nil {
		b.bar.SetCurrent(int64(e.Current))
	}
}

// Wait flushes and stops the bar container; call once after the run ends.
func (b *Bar) Wait() {
	if b.bar != nil {
		b.bar.SetTotal(-1, true)
	}
	b.container.Wait()
}
