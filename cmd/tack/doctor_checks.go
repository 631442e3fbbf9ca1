package main

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/calendar"
	"github.com/gorewood/tack/internal/config"
	"github.com/gorewood/tack/internal/launcher"
	"github.com/gorewood/tack/internal/location"
	"github.com/gorewood/tack/internal/sink"
	"github.com/gorewood/tack/internal/templates"
)

// doctorEnv is what the checks inspect.
type doctorEnv struct {
	configPath string
	settings   *config.File
	loadErr    error
	library    *templates.Library
	lookPath   func(string) (string, error)
}

func newDoctorEnv(cmd *cobra.Command, injected *deps) *doctorEnv {
	env := &doctorEnv{
		configPath: configPath(cmd),
		library:    templates.NewLibrary(),
		lookPath:   exec.LookPath,
	}
	if injected != nil && injected.Library != nil {
		env.library = injected.Library
	}
	if injected != nil && injected.Settings != nil {
		env.settings = injected.Settings
		return env
	}

	env.settings, env.loadErr = config.Load(persistentFlag(cmd, "config"))
	if env.loadErr != nil {
		env.settings = config.Default()
	}
	return env
}

// runCoreChecks performs settings and library checks.
func runCoreChecks(env *doctorEnv, flags *doctorFlags) []checkResult {
	checks := make([]checkResult, 0, 3)
	checks = append(checks, checkSettingsFile(env, flags))
	checks = append(checks, checkBinaryInPath())
	checks = append(checks, checkTemplates(env))
	return checks
}

// checkSettingsFile checks that the settings file loads.
func checkSettingsFile(env *doctorEnv, flags *doctorFlags) checkResult {
	const name = "Settings"

	if env.loadErr != nil {
		return checkResult{
			Name:    name,
			Status:  checkFail,
			Message: env.loadErr.Error(),
			Hint:    "Fix the file or run 'tack config show' to see the effective settings",
		}
	}
	if env.configPath == "" {
		return checkResult{Name: name, Status: checkWarn, Message: "no config directory; using defaults"}
	}

	if _, err := os.Stat(env.configPath); errors.Is(err, fs.ErrNotExist) {
		if flags.fix {
			if err := config.WriteDefault(env.configPath); err == nil {
				return checkResult{Name: name, Status: checkPass, Message: env.configPath + " (created)"}
			}
		}
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: "no settings file; using defaults",
			Hint:    "Run 'tack config init' to create " + env.configPath,
		}
	}
	return checkResult{Name: name, Status: checkPass, Message: env.configPath}
}

// checkBinaryInPath reports the resolved tack executable.
func checkBinaryInPath() checkResult {
	execPath, err := os.Executable()
	if err != nil {
		return checkResult{
			Name:    "Binary",
			Status:  checkWarn,
			Message: "could not determine executable path",
		}
	}

	resolvedPath, resolveErr := filepath.EvalSymlinks(execPath)
	if resolveErr != nil {
		return checkResult{
			Name:    "Binary",
			Status:  checkWarn,
			Message: "could not resolve executable path",
		}
	}

	return checkResult{Name: "Binary", Status: checkPass, Message: resolvedPath}
}

// checkTemplates counts the templates by source.
func checkTemplates(env *doctorEnv) checkResult {
	counts := map[string]int{}
	for _, info := range env.library.List() {
		counts[info.Source]++
	}
	msg := plural(counts[templates.SourceProject], "project") + ", " +
		plural(counts[templates.SourceGlobal], "global") + ", " +
		plural(counts[templates.SourceBuiltin], "built-in")

	if counts[templates.SourceProject]+counts[templates.SourceGlobal] == 0 {
		return checkResult{
			Name:    "Templates",
			Status:  checkPass,
			Message: msg,
			Hint:    "Add your own as " + filepath.Join(env.library.GlobalDir, "<name>"+templates.Extension),
		}
	}
	return checkResult{Name: "Templates", Status: checkPass, Message: msg}
}

// runDeliveryChecks performs sink and location checks.
func runDeliveryChecks(env *doctorEnv, flags *doctorFlags) []checkResult {
	checks := make([]checkResult, 0, 3)
	checks = append(checks, checkOpener(env))
	checks = append(checks, checkOutbox(env, flags))
	checks = append(checks, checkLocation(env))
	return checks
}

// checkOpener checks that URLs can be opened. Only the omnifocus sink and
// the launcher need it.
func checkOpener(env *doctorEnv) checkResult {
	name, _ := sink.NewExecOpener().Command()
	path, err := env.lookPath(name)
	if err == nil {
		return checkResult{Name: "URL Opener", Status: checkPass, Message: path}
	}

	status := checkWarn
	if env.settings.Sink.Kind == sink.KindOmniFocus {
		status = checkFail
	}
	return checkResult{
		Name:    "URL Opener",
		Status:  status,
		Message: name + " not found",
		Hint:    "Use sink.kind: url or file on systems without " + name,
	}
}

// checkOutbox checks the file sink directory.
func checkOutbox(env *doctorEnv, flags *doctorFlags) checkResult {
	const name = "Outbox"
	dir := env.settings.Sink.Outbox

	if env.settings.Sink.Kind != sink.KindFile {
		return checkResult{Name: name, Status: checkPass, Message: "not used (sink: " + env.settings.Sink.Kind + ")"}
	}

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return checkResult{Name: name, Status: checkPass, Message: dir}
	}
	if flags.fix {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return checkResult{Name: name, Status: checkPass, Message: dir + " (created)"}
		}
	}
	return checkResult{
		Name:    name,
		Status:  checkWarn,
		Message: dir + " does not exist",
		Hint:    "It is created on first delivery, or run 'tack doctor --fix'",
	}
}

// checkLocation reports how ${HERE} will be resolved.
func checkLocation(env *doctorEnv) checkResult {
	cfg := env.settings.Location
	switch cfg.Provider {
	case location.ProviderNone, "":
		return checkResult{
			Name:    "Location",
			Status:  checkWarn,
			Message: "no provider; templates using ${HERE} will fail",
			Hint:    "Set location.provider to static or http",
		}
	case location.ProviderHTTP:
		return checkResult{Name: "Location", Status: checkPass, Message: "http " + cfg.URL}
	default:
		return checkResult{Name: "Location", Status: checkPass, Message: cfg.Provider}
	}
}

// runContextChecks performs launcher and calendar checks.
func runContextChecks(env *doctorEnv) []checkResult {
	checks := make([]checkResult, 0, 2)
	checks = append(checks, checkLauncherRules(env))
	checks = append(checks, checkCalendarEvents(env))
	return checks
}

// checkLauncherRules compiles the rules and checks for a catch-all.
func checkLauncherRules(env *doctorEnv) checkResult {
	const name = "Launcher Rules"
	l, err := launcher.New(env.settings.Launcher, zap.NewNop())
	if err != nil {
		return checkResult{Name: name, Status: checkFail, Message: err.Error()}
	}

	rules := l.Rules()
	if len(rules) == 0 {
		return checkResult{
			Name:    name,
			Status:  checkFail,
			Message: "no rules",
			Hint:    "Remove launcher.rules to use the defaults",
		}
	}
	if last := rules[len(rules)-1]; last.Match != ".*" || last.When != "" {
		return checkResult{
			Name:    name,
			Status:  checkWarn,
			Message: plural(len(rules), "rule") + ", no catch-all",
			Hint:    "End the list with a rule whose match is .* so launch always finds one",
		}
	}
	return checkResult{Name: name, Status: checkPass, Message: plural(len(rules), "rule")}
}

// checkCalendarEvents checks the event file parses.
func checkCalendarEvents(env *doctorEnv) checkResult {
	const name = "Calendar Events"
	path := env.settings.Calendar.Events
	if path == "" {
		return checkResult{Name: name, Status: checkPass, Message: "not configured"}
	}
	events, err := calendar.LoadEvents(path, nil)
	if err != nil {
		return checkResult{Name: name, Status: checkFail, Message: err.Error()}
	}
	return checkResult{Name: name, Status: checkPass, Message: plural(len(events), "event") + " in " + path}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
