package engine

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPreparing Status = "preparing"
	StatusRendering Status = "rendering"
	StatusEncoding  Status = "encoding"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// Phase weights in percent of the whole job.
const (
	prepareWeight = 30
	renderWeight  = 60
)

type Progress struct {
	Status       Status `json:"status"`
	CurrentSlide int    `json:"currentSlide"`
	TotalSlides  int    `json:"totalSlides"`
	Progress     int    `json:"progress"` // 0-100
	Message      string `json:"message"`
}

type ProgressFunc func(Progress)

// ProgressBar renders progress updates on a single terminal line.
type ProgressBar struct {
	width      int
	startTime  time.Time
	lastUpdate time.Time
	last       Progress
}

func NewProgressBar() *ProgressBar {
	return &ProgressBar{width: 30, startTime: time.Now()}
}

// Report is a ProgressFunc.
func (p *ProgressBar) Report(pr Progress) {
	status := pr.Status != p.last.Status
	p.last = pr

	switch pr.Status {
	case StatusError:
		fmt.Printf("\n[-] %s\n", pr.Message)
		return
	case StatusComplete:
		p.draw(pr)
		fmt.Println()
		return
	}

	// не чаще 10 раз в секунду, кроме смены фазы
	if !status && time.Since(p.lastUpdate) < 100*time.Millisecond {
		return
	}
	p.lastUpdate = time.Now()
	p.draw(pr)
}

func (p *ProgressBar) draw(pr Progress) {
	completed := p.width * pr.Progress / 100
	if completed > p.width {
		completed = p.width
	}
	bar := strings.Repeat("=", completed) + strings.Repeat("-", p.width-completed)
	fmt.Printf("\r%-9s [%s] %3d%% slide %d/%d Elapsed: %v",
		pr.Status,
		bar,
		pr.Progress,
		pr.CurrentSlide,
		pr.TotalSlides,
		time.Since(p.startTime).Round(time.Second),
	)
}
