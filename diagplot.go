package bayesnet

// diagplot.go renders simple Plotly diagnostic charts (BoostAODE's
// pack-by-pack training accuracy, for instance) to an HTML file, and
// optionally opens it in a browser.

import (
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
)

// Browser is the command used to open a diagnostic plot when PlotDef.Show
// is set.
var Browser = "xdg-open"

// PlotDef specifies the Plotly layout options a diagnostic plot commonly
// needs.
type PlotDef struct {
	Show     bool // Show - true = open the plot in a browser
	Title    string
	XTitle   string
	YTitle   string
	Legend   bool
	Height   float64
	Width    float64
	FileName string // FileName - output HTML file; a temp file if empty and Show is set
}

// Plotter writes fig (with layout lay, augmented by pd) to an HTML file
// and, if pd.Show is set, opens it with Browser.
func Plotter(fig *grob.Fig, lay *grob.Layout, pd *PlotDef) error {
	pd.Title = strings.ReplaceAll(pd.Title, "\n", "<br>")
	pd.XTitle = strings.ReplaceAll(pd.XTitle, "\n", "<br>")
	pd.YTitle = strings.ReplaceAll(pd.YTitle, "\n", "<br>")

	if lay == nil {
		lay = &grob.Layout{}
	}
	if pd.Title != "" {
		lay.Title = &grob.LayoutTitle{Text: pd.Title}
	}
	if pd.YTitle != "" {
		lay.Yaxis = &grob.LayoutYaxis{Title: &grob.LayoutYaxisTitle{Text: pd.YTitle}, Showline: grob.True}
	}
	if pd.XTitle != "" {
		lay.Xaxis = &grob.LayoutXaxis{Title: &grob.LayoutXaxisTitle{Text: pd.XTitle}}
	}
	if !pd.Legend {
		lay.Showlegend = grob.False
	}
	if pd.Width > 0 {
		lay.Width = pd.Width
	}
	if pd.Height > 0 {
		lay.Height = pd.Height
	}
	fig.Layout = lay

	if pd.FileName == "" && !pd.Show {
		return nil
	}

	tmp := false
	if pd.FileName == "" {
		tmp = true
		pd.FileName = fmt.Sprintf("%s/bayesnet-plot-%d.html", os.TempDir(), rand.Uint32())
	}
	offline.ToHtml(fig, pd.FileName)

	if !pd.Show {
		return nil
	}

	cmd := exec.Command(Browser, pd.FileName)
	if err := cmd.Start(); err != nil {
		return Wrapperf(ErrRuntimeError, "opening browser: %v", err)
	}
	time.Sleep(time.Second)

	if tmp {
		if err := os.Remove(pd.FileName); err != nil {
			return Wrapperf(ErrRuntimeError, "removing temp plot file: %v", err)
		}
	}
	return nil
}

// accuracyFigure builds a scatter-line chart of a boosting run's
// pack-by-pack training accuracy.
func accuracyFigure(accuracy []float64) *grob.Fig {
	x := make([]float64, len(accuracy))
	for i := range accuracy {
		x[i] = float64(i + 1)
	}
	tr := &grob.Scatter{
		Type: grob.TraceTypeScatter,
		Mode: grob.ScatterModeLines,
		X:    x,
		Y:    accuracy,
		Line: &grob.ScatterLine{Color: "black"},
	}
	return &grob.Fig{Data: grob.Traces{tr}}
}
