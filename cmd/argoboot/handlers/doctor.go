package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/argoboot/internal/config"
	"github.com/imamik/argoboot/internal/platform/minikube"
	"github.com/imamik/argoboot/internal/util/prerequisites"
)

// checkAllPrereqs runs the full tool check. Replaceable in tests.
var checkAllPrereqs = prerequisites.CheckAll

// DoctorReport is the full diagnostic result.
type DoctorReport struct {
	Tools   []ToolStatus  `json:"tools"`
	Config  ConfigStatus  `json:"config"`
	Cluster ClusterStatus `json:"cluster"`
}

// ToolStatus reports whether a client tool is installed.
type ToolStatus struct {
	Name       string `json:"name"`
	Required   bool   `json:"required"`
	Found      bool   `json:"found"`
	Version    string `json:"version,omitempty"`
	InstallURL string `json:"installURL,omitempty"`
}

// ConfigStatus reports whether a usable configuration was found.
type ConfigStatus struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
	Waves int    `json:"waves,omitempty"`
	Error string `json:"error,omitempty"`
}

// ClusterStatus reports the target cluster's lifecycle state.
type ClusterStatus struct {
	Profile string `json:"profile,omitempty"`
	Status  string `json:"status"`
}

// Doctor diagnoses the local environment: installed tools, the
// configuration file, and the target cluster's state. It never changes
// anything. A missing required tool makes it return an error so
// scripted callers see a non-zero exit.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	report := buildReport(ctx, configPath)

	if jsonOutput {
		if err := printDoctorJSON(report); err != nil {
			return err
		}
	} else if isInteractiveTTY() {
		printDoctorStyled(report)
	} else {
		printDoctorPlain(report)
	}

	return checkAllPrereqs().Error()
}

// buildReport gathers all diagnostic data without touching the cluster
// beyond a status probe.
func buildReport(ctx context.Context, configPath string) *DoctorReport {
	report := &DoctorReport{
		Cluster: ClusterStatus{Status: string(minikube.StatusUnknown)},
	}

	results := checkAllPrereqs()
	minikubeFound := false
	for _, r := range results.Results {
		report.Tools = append(report.Tools, ToolStatus{
			Name:       r.Tool.Name,
			Required:   r.Tool.Required,
			Found:      r.Found,
			Version:    r.Version,
			InstallURL: r.Tool.InstallURL,
		})
		if r.Tool.Name == "minikube" && r.Found {
			minikubeFound = true
		}
	}

	cfg, path, err := probeConfig(configPath)
	if err != nil {
		report.Config = ConfigStatus{Path: path, Error: err.Error()}
	} else {
		report.Config = ConfigStatus{Found: true, Path: path, Waves: len(cfg.Waves)}
		report.Cluster.Profile = cfg.Profile
	}

	if minikubeFound && report.Cluster.Profile != "" {
		status, err := newClusterManager().Status(ctx, report.Cluster.Profile)
		if err != nil {
			status = minikube.StatusUnknown
		}
		report.Cluster.Status = string(status)
	}

	return report
}

// probeConfig resolves and loads the config, returning the path it
// tried even when loading fails.
func probeConfig(configPath string) (*config.Config, string, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, config.DefaultConfigFile, err
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, configPath, err
	}
	return cfg, configPath, nil
}

func printDoctorJSON(report *DoctorReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

var (
	doctorHeaderStyle = lipgloss.NewStyle().Bold(true)
	doctorOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	doctorFailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doctorDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// printDoctorStyled renders the report with colors for interactive
// terminals.
func printDoctorStyled(report *DoctorReport) {
	fmt.Println()
	fmt.Println("  " + doctorHeaderStyle.Render("Tools"))
	for _, tool := range report.Tools {
		indicator := doctorOKStyle.Render("ok")
		detail := tool.Version
		if !tool.Found {
			if tool.Required {
				indicator = doctorFailStyle.Render("missing")
			} else {
				indicator = doctorDimStyle.Render("missing (optional)")
			}
			detail = tool.InstallURL
		}
		fmt.Printf("    %-10s %s", tool.Name, indicator)
		if detail != "" {
			fmt.Printf("  %s", doctorDimStyle.Render(detail))
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Println("  " + doctorHeaderStyle.Render("Configuration"))
	if report.Config.Found {
		fmt.Printf("    %s %s  %s\n", doctorOKStyle.Render("ok"), report.Config.Path,
			doctorDimStyle.Render(fmt.Sprintf("%d waves", report.Config.Waves)))
	} else {
		fmt.Printf("    %s %s\n", doctorFailStyle.Render("error"), report.Config.Error)
	}

	fmt.Println()
	fmt.Println("  " + doctorHeaderStyle.Render("Cluster"))
	style := doctorDimStyle
	if report.Cluster.Status == string(minikube.StatusRunning) {
		style = doctorOKStyle
	}
	profile := report.Cluster.Profile
	if profile == "" {
		profile = "(unknown profile)"
	}
	fmt.Printf("    %-10s %s\n", profile, style.Render(report.Cluster.Status))
	fmt.Println()
}

// printDoctorPlain renders the report without styling for pipes and
// logs.
func printDoctorPlain(report *DoctorReport) {
	fmt.Println("Tools:")
	for _, tool := range report.Tools {
		state := "ok"
		if !tool.Found {
			state = "missing"
			if !tool.Required {
				state = "missing (optional)"
			}
		}
		fmt.Printf("  %s: %s\n", tool.Name, state)
	}

	fmt.Println("Configuration:")
	if report.Config.Found {
		fmt.Printf("  %s: ok (%d waves)\n", report.Config.Path, report.Config.Waves)
	} else {
		fmt.Printf("  error: %s\n", report.Config.Error)
	}

	fmt.Println("Cluster:")
	fmt.Printf("  %s: %s\n", report.Cluster.Profile, report.Cluster.Status)
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
