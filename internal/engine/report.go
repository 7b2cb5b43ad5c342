package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/ivlev/scene2video/internal/system"
)

type report struct {
	host   system.HostInfo
	render time.Duration
	concat time.Duration
	total  time.Duration
	frames int
}

func (p *VideoProject) printReport() {
	r := p.report
	if r.host.LogicalCPUs == 0 {
		r.host = system.HostStats()
	}
	gets, allocs := p.Pool.Stats()
	fps := 0.0
	if r.total > 0 {
		fps = float64(r.frames) / r.total.Seconds()
	}
	text := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering + Encoding: %.2fs\n"+
			"Concatenation: %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"Buffer pool: %d gets, %d allocs\n"+
			"----------------------------\n",
		p.Config.BuildVersion, r.host, r.total.Seconds(), r.render.Seconds(), r.concat.Seconds(),
		r.frames, fps, gets, allocs,
	)
	fmt.Print(text)

	entry := fmt.Sprintf("[%s] %s", time.Now().Format("2006-01-02 15:04:05"), text)
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		return
	}
	defer f.Close()
	f.WriteString(entry)
}
