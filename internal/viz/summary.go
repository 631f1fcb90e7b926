package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/galprof/internal/analysis"
	"github.com/san-kum/galprof/internal/geom"
)

const sparkWidth = 20

// Summary renders a finished analysis run.
func Summary(r *analysis.Report) string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("galprof · %s", r.Label)) + "\n")
	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("  %-12s", label)) + MetricValue.Render(value) + "\n")
	}
	if r.RunID != "" {
		row("run", r.RunID)
	}
	row("particles", fmt.Sprintf("%d", r.Particles))
	row("centre", fmt.Sprintf("%v", r.Centre))
	b.WriteString(Subtle.Render("  "+r.CentreSource) + "\n")
	row("elapsed", r.Elapsed.Round(time.Millisecond).String())

	if len(r.Profiles) > 0 {
		var pb strings.Builder
		pb.WriteString(Title.Render("profiles") + "\n")
		for _, pr := range r.Profiles {
			values := make([]float64, 0, pr.Profile.Len())
			for _, pt := range pr.Profile.Points() {
				values = append(values, pt.Value)
			}
			filter := analysis.FilterLabel(pr.Config.Filter)
			if filter == "" {
				filter = "all"
			}
			pb.WriteString(fmt.Sprintf("%s %s  %s\n",
				MetricValue.Render(fmt.Sprintf("%-28s", pr.Config.Name)),
				SparklineChart(values, sparkWidth),
				Subtle.Render(fmt.Sprintf("%s %s [%s] %d/%d binned → %s",
					pr.Config.Species, pr.Profile.Kind(), filter, pr.Profile.TotalCount(), pr.Selected, pr.Path)),
			))
		}
		b.WriteString(Panel.Render(strings.TrimRight(pb.String(), "\n")) + "\n")
	}

	if len(r.Kinematics) > 0 {
		var kb strings.Builder
		kb.WriteString(Title.Render("kinematics") + "\n")
		for _, k := range r.Kinematics {
			l := fmt.Sprintf("undefined in %dD", geom.NDims)
			if k.HasAngularMomentum {
				l = k.AngularMomentum.String()
			}
			kb.WriteString(MetricValue.Render(k.Config.Name) + Subtle.Render(fmt.Sprintf(" (%s, %d particles)", k.Config.Species, k.Count)) + "\n")
			kb.WriteString(MetricLabel.Render("  centre of mass      ") + fmt.Sprintf("%v", k.CentreOfMass) + "\n")
			kb.WriteString(MetricLabel.Render("  angular momentum    ") + l + "\n")
			kb.WriteString(MetricLabel.Render("  velocity dispersion ") + fmt.Sprintf("%g", k.Dispersion) + "\n")
		}
		b.WriteString(Panel.Render(strings.TrimRight(kb.String(), "\n")) + "\n")
	}

	return b.String()
}
