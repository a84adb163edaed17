package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"vramcounter/internal/config"
	"vramcounter/internal/estimator"
	"vramcounter/internal/logutil"
	"vramcounter/internal/modinfo"
	"vramcounter/internal/progress"
	"vramcounter/internal/report"
	"vramcounter/internal/tui"
)

// session holds what stays fixed across repeated estimates of one mods
// folder.
type session struct {
	flags   rootFlags
	modsDir string
	logger  *log.Logger
	cache   *estimator.ProbeCache
	stdout  io.Writer

	// resolved once, on the first run
	effective *config.Effective
}

func newSession(args []string, f rootFlags) (*session, error) {
	modsDir, err := resolveModsDir(args)
	if err != nil {
		return nil, err
	}
	if err := estimator.CheckRoot(modsDir); err != nil {
		return nil, err
	}
	return &session{
		flags:   f,
		modsDir: modsDir,
		logger:  logutil.Default(),
		stdout:  os.Stdout,
	}, nil
}

// resolveModsDir defaults to the parent of the working directory, where the
// tool is installed as a folder inside the mods folder.
func resolveModsDir(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Dir(wd), nil
}

func (s *session) run(ctx context.Context) error {
	var echo io.Writer
	if s.flags.noTUI {
		echo = s.stdout
	}
	plog := progress.New(echo)
	defer plog.Close()

	packages, err := s.loadPackages(plog)
	if err != nil {
		return err
	}

	if s.effective == nil {
		if err := s.resolveConfig(packages); err != nil {
			return err
		}
	}

	opts := estimator.Options{
		Config:      *s.effective,
		Classifier:  classifierFor(*s.effective),
		Workers:     s.flags.workers,
		HeadersOnly: s.flags.headersOnly,
		Cache:       s.cache,
	}
	result, err := s.estimate(ctx, opts, plog, packages)
	if err != nil {
		return err
	}
	plog.Println("")

	summary := report.NewSummary(result, s.effective.Maps, filepath.Base(s.flags.configPath))
	summaryText := summary.String()
	s.printResult(result, summary, summaryText)

	path, err := report.WriteFile(s.flags.outputDir, plog.String(), summaryText)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	fmt.Fprintf(s.stdout, "\nFile written to %s.\n", path)

	if !s.flags.noClipboard {
		if err := report.CopyToClipboard(s.stdout, summaryText); err != nil {
			s.logger.Warn("clipboard", "err", err)
		} else {
			fmt.Fprintln(s.stdout, "Summary copied to clipboard, ready to paste.")
		}
	}
	return nil
}

// classifierFor applies configured unused indicators over the defaults.
func classifierFor(eff config.Effective) estimator.Classifier {
	c := estimator.DefaultClassifier()
	if len(eff.UnusedIndicators) > 0 {
		c.UnusedIndicators = eff.UnusedIndicators
	}
	return c
}

func (s *session) loadPackages(plog *progress.Log) ([]estimator.Package, error) {
	enabledIDs, ok := modinfo.LoadEnabled(s.modsDir, plog)
	if ok {
		plog.Println("Enabled Mods:\n" + strings.Join(enabledIDs, "\n"))
	}
	plog.Println("Mods folder: " + s.modsDir)

	infos, err := modinfo.Discover(s.modsDir, plog)
	if err != nil {
		return nil, fmt.Errorf("list mods: %w", err)
	}

	enabled := make(map[string]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		enabled[id] = true
	}
	packages := make([]estimator.Package, 0, len(infos))
	for _, info := range infos {
		packages = append(packages, estimator.Package{
			ID:      info.ID,
			Name:    info.Name,
			Version: info.Version,
			Root:    info.Folder,
			Enabled: enabled[info.ID],
		})
	}
	s.logger.Debug("discovered mods", "count", len(packages), "enabled", len(enabledIDs))
	return packages, nil
}

func (s *session) resolveConfig(packages []estimator.Package) error {
	settings, err := config.Load(s.flags.configPath)
	if err != nil {
		s.logger.Warn("using default settings", "err", err)
	}

	addonEnabled := false
	for _, pkg := range packages {
		if pkg.ID == config.GraphicsLibModID && pkg.Enabled {
			addonEnabled = true
		}
	}

	var prompter config.Prompter
	if !s.flags.noPrompt && !s.flags.noTUI {
		prompter = tui.Prompter{Output: os.Stderr}
	}

	effective, resolution, err := config.Resolve(settings, addonEnabled, prompter)
	if err != nil {
		return err
	}
	s.logger.Info("graphics maps",
		"source", resolution,
		"normal", effective.Maps.Normal,
		"material", effective.Maps.Material,
		"surface", effective.Maps.Surface,
	)

	if resolution == config.ResolvedByPrompt && s.flags.remember {
		if err := config.Save(s.flags.configPath, settings.WithMaps(effective.Maps)); err != nil {
			s.logger.Warn("save settings", "path", s.flags.configPath, "err", err)
		} else {
			s.logger.Info("saved settings", "path", s.flags.configPath)
		}
	}

	s.effective = &effective
	return nil
}

// estimate runs the estimator, driving the live progress view unless it is
// disabled.
func (s *session) estimate(ctx context.Context, opts estimator.Options, plog *progress.Log, packages []estimator.Package) (estimator.Report, error) {
	if s.flags.noTUI {
		return estimator.New(opts, plog, nil).Run(ctx, packages)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan estimator.ProgressUpdate, 64)
	est := estimator.New(opts, plog, updates)
	program := tea.NewProgram(tui.NewModel(updates).WithCancel(cancel), tea.WithOutput(os.Stderr))

	uiDone := make(chan struct{})
	go func() {
		if _, err := program.Run(); err != nil {
			s.logger.Warn("progress view", "err", err)
		}
		// keep the estimator unblocked once the view has exited
		for range updates {
		}
		close(uiDone)
	}()

	result, err := est.Run(ctx, packages)
	close(updates)
	<-uiDone
	return result, err
}

func (s *session) printResult(result estimator.Report, summary report.Summary, summaryText string) {
	fmt.Fprintln(s.stdout, report.ModTotals(result))
	if s.flags.noTUI {
		fmt.Fprintln(s.stdout, summaryText)
		return
	}

	fmt.Fprintln(s.stdout, headerStyle.Render("VRAM Use Estimates"))
	fmt.Fprintln(s.stdout, dimStyle.Render(fmt.Sprintf("%d enabled mods, GraphicsLib maps normal:%t material:%t surface:%t",
		len(summary.Enabled), summary.Maps.Normal, summary.Maps.Material, summary.Maps.Surface)))

	lines := report.TotalLines(summary.Totals)
	rows := make([]tui.SummaryRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, tui.SummaryRow{Label: line.Label, Value: line.Value})
	}
	fmt.Fprintln(s.stdout, tui.RenderSummary(rows))
	fmt.Fprintln(s.stdout, tui.RenderWarning("This is only an estimate of VRAM use and actual use may be higher or lower."))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	dimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
)
