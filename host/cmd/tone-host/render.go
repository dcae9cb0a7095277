package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"pwmtone/host/config"
	"pwmtone/host/mcu"
	"pwmtone/melodies"
	"pwmtone/tone"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func cell(width int, s string) string {
	return lipgloss.NewStyle().Width(width).Render(s)
}

func renderPresets(w io.Writer, tempo, rest uint16) {
	fmt.Fprintln(w, headerStyle.Render(cell(4, "ID")+cell(16, "NAME")+cell(7, "NOTES")+"LENGTH"))
	for _, p := range melodies.All() {
		ms := p.Melody.TotalDuration(tempo, rest)
		fmt.Fprintln(w, cell(4, strconv.Itoa(int(p.ID)))+cell(16, p.Name)+
			cell(7, strconv.Itoa(p.Melody.Len()))+dimStyle.Render(fmt.Sprintf("%d ms", ms)))
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("at %d bpm with %d ms between notes", tempo, rest)))
}

func renderStatus(w io.Writer, st mcu.Status, shutdown bool) {
	playing := dimStyle.Render("silent")
	if st.Playing {
		playing = okStyle.Render("playing")
	}
	fmt.Fprintf(w, "oid %d: %s, melody %s\n", st.OID, playing, st.State)
	if shutdown {
		fmt.Fprintln(w, alertStyle.Render("firmware is shut down, run: tone-host estop --clear"))
	}
}

func renderDictionary(w io.Writer, d *mcu.Dictionary) {
	fmt.Fprintln(w, headerStyle.Render(d.Version)+" "+dimStyle.Render(d.BuildVersions))

	fmt.Fprintln(w, headerStyle.Render("config"))
	for _, k := range sortedKeys(d.Config) {
		fmt.Fprintf(w, "  %s %v\n", cell(20, k), d.Config[k])
	}

	for _, section := range []struct {
		title string
		ids   map[string]int
	}{
		{"commands", d.Commands},
		{"responses", d.Responses},
	} {
		fmt.Fprintln(w, headerStyle.Render(section.title))
		keys := sortedKeys(section.ids)
		sort.SliceStable(keys, func(i, j int) bool { return section.ids[keys[i]] < section.ids[keys[j]] })
		for _, k := range keys {
			fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(cell(4, strconv.Itoa(section.ids[k]))), k)
		}
	}
}

func renderSettings(w io.Writer, cfg *config.Config) {
	rows := [][2]string{
		{"device", cfg.Device},
		{"baud", strconv.Itoa(cfg.Baud)},
		{"oid", strconv.Itoa(int(cfg.OID))},
		{"pin", strconv.Itoa(int(cfg.Pin))},
		{"tempo", strconv.Itoa(int(cfg.Tempo))},
		{"rest", strconv.Itoa(int(cfg.RestMs)) + " ms"},
		{"backend", cfg.Backend},
		{"gpio", cfg.GPIO},
		{"sample rate", strconv.Itoa(cfg.SampleRate)},
		{"band", fmt.Sprintf("%.1f..%.1f Hz", tone.MinFrequency, tone.MaxFrequency)},
	}
	for _, r := range rows {
		fmt.Fprintln(w, headerStyle.Render(cell(12, r[0]))+r[1])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
