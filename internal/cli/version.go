package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/capnganj/PoisonToadsDapp/internal/output"
	versionpkg "github.com/capnganj/PoisonToadsDapp/internal/version"
)

// BuildInfo is set from ldflags by the main package.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var (
	buildInfo BuildInfo

	versionCheck bool

	// newCheckerFn builds the release checker. Tests point it at a local server.
	newCheckerFn = func(current string) *versionpkg.Checker {
		return versionpkg.NewChecker(current)
	}
)

// SetBuildInfo records the build metadata shown by "mintdapp version".
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
	rootCmd.Version = formatVersion(info)
}

func formatVersion(info BuildInfo) string {
	v, commit, date := info.Version, info.Commit, info.Date
	if v == "" {
		v = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}

// VersionResult is the JSON output of the version command.
type VersionResult struct {
	BuildInfo

	GoVersion string           `json:"go_version"`
	Update    *versionpkg.Info `json:"update,omitempty"`
}

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print version information",
	GroupID: groupOther,
	Long:    `Print the mintdapp version, commit and build date. With --check, also ask GitHub whether a newer release exists.`,
	Example: `  mintdapp version
  mintdapp version --check -o json`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	cc := currentContext()
	result := VersionResult{BuildInfo: buildInfo, GoVersion: runtime.Version()}

	if versionCheck {
		info, err := newCheckerFn(buildInfo.Version).Check(ctx, buildInfo.Version)
		if err != nil {
			return err
		}
		result.Update = &info
	}

	if cc.Formatter.IsJSON() {
		return cc.Formatter.Print(result)
	}

	w := cc.Formatter.Writer()
	out(w, "mintdapp %s %s\n", formatVersion(buildInfo), result.GoVersion)
	if u := result.Update; u != nil {
		if u.UpdateAvailable {
			output.Infof(w, "%s is available: %s", u.Latest, u.URL)
		} else {
			output.Success(w, "You are running the latest release")
		}
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
