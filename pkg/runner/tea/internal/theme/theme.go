package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Card   CardTheme
	Form   FormTheme
	Modal  ModalTheme
	Footer FooterTheme
}

// HeaderTheme styles the banner and connectivity badge.
type HeaderTheme struct {
	Title   lipgloss.Style
	Tagline lipgloss.Style
	Online  lipgloss.Style
	Offline lipgloss.Style
}

// CardTheme styles movement cards and section titles.
type CardTheme struct {
	Section   lipgloss.Style
	Vehicle   lipgloss.Style
	Meta      lipgloss.Style
	InUse     lipgloss.Style
	Distance  lipgloss.Style
	Empty     lipgloss.Style
	Link      lipgloss.Style
	Shortcut  lipgloss.Style
	Separator lipgloss.Style
}

// FormTheme styles form fields, hints and inline warnings.
type FormTheme struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Value   lipgloss.Style
	Hint    lipgloss.Style
	Warning lipgloss.Style
}

// ModalTheme styles the settings overlay and alert/confirm dialogs.
type ModalTheme struct {
	Box    lipgloss.Style
	Alert  lipgloss.Style
	Danger lipgloss.Style
	Title  lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/command bar.
type FooterTheme struct {
	Help                lipgloss.Style
	Status              lipgloss.Style
	ToastSuccess        lipgloss.Style
	ToastError          lipgloss.Style
	CommandName         lipgloss.Style
	CommandDescription  lipgloss.Style
	CommandSelectedName lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	commandName := lipgloss.NewStyle().
		Foreground(lipgloss.Color("36")).
		Bold(true)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("244")).
		Padding(1, 2)

	return Theme{
		Header: HeaderTheme{
			Title:   lipgloss.NewStyle().Bold(true).Italic(true).Foreground(lipgloss.Color("255")),
			Tagline: lipgloss.NewStyle().Foreground(lipgloss.Color("43")),
			Online:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			Offline: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
		Card: CardTheme{
			Section:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
			Vehicle:   lipgloss.NewStyle().Bold(true),
			Meta:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			InUse:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			Distance:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Empty:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
			Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Underline(true),
			Shortcut:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2),
			Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		},
		Form: FormTheme{
			Title:   lipgloss.NewStyle().Bold(true).Underline(true),
			Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Focused: lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true),
			Value:   lipgloss.NewStyle(),
			Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		},
		Modal: ModalTheme{
			Box:    box,
			Alert:  box.BorderForeground(lipgloss.Color("214")),
			Danger: box.BorderForeground(lipgloss.Color("203")),
			Title:  lipgloss.NewStyle().Bold(true),
		},
		Footer: FooterTheme{
			Help:                lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:              lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			ToastSuccess:        lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("29")).Bold(true).Padding(0, 1),
			ToastError:          lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Bold(true).Padding(0, 1),
			CommandName:         commandName,
			CommandDescription:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			CommandSelectedName: commandName.Reverse(true),
		},
	}
}
