package dashboard

import (
	"fmt"
	"net/http"
	"strings"
)

var labelEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)

// MetricsEndpoint implements Prometheus metrics endpoint.
// Every sample is stamped with the time of the latest sweep.
func MetricsEndpoint(s Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, ok := loadReport(s, "metrics", w)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=UTF-8")

		var ts string
		if report.LastSync != nil {
			ts = fmt.Sprintf(" %d", report.LastSync.UnixMilli())
		}

		fmt.Fprintln(w, "# HELP cloudpulse_service_healthy Whether the latest status of the service looks healthy.")
		fmt.Fprintln(w, "# TYPE cloudpulse_service_healthy gauge")
		for _, svc := range report.Services {
			v := 0
			if svc.Healthy {
				v = 1
			}
			fmt.Fprintf(w, "cloudpulse_service_healthy{service=\"%s\",status=\"%s\"} %d%s\n", labelEscaper.Replace(svc.Name), labelEscaper.Replace(svc.Status), v, ts)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "# HELP cloudpulse_health_percent The percentage of healthy services in the latest sweep.")
		fmt.Fprintln(w, "# TYPE cloudpulse_health_percent gauge")
		if report.HasData() {
			fmt.Fprintf(w, "cloudpulse_health_percent %v%s\n", report.HealthPercent, ts)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, "# HELP cloudpulse_active_issues The number of services that are not operational in the latest sweep.")
		fmt.Fprintln(w, "# TYPE cloudpulse_active_issues gauge")
		fmt.Fprintf(w, "cloudpulse_active_issues %d\n", len(report.Assessment.Issues))
		fmt.Fprintln(w)

		fmt.Fprintln(w, "# HELP cloudpulse_history_entries The number of sweeps in the history file.")
		fmt.Fprintln(w, "# TYPE cloudpulse_history_entries gauge")
		fmt.Fprintf(w, "cloudpulse_history_entries %d\n", report.Entries)
	}
}
