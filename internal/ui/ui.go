package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dialsync/internal/models"
	"github.com/desertthunder/dialsync/internal/services"
	"github.com/desertthunder/dialsync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ContactListView ViewState = iota
	ConfirmView
	SyncView
	ResultView
)

// Options carries the run policy displayed on the confirm screen.
type Options struct {
	Frequency         string
	DeleteUnqualified bool
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	source       services.SourceService
	engine       *tasks.ContactEngine
	opts         Options
	width        int
	height       int
	contactList  list.Model
	contacts     []models.Contact
	progressChan chan tasks.ProgressUpdate
	done         chan syncCompleteMsg
	progress     tasks.ProgressUpdate
	result       *tasks.SyncRunResult
	err          error
	help         help.Model
	keys         keyMap
}

type contactsFetchedMsg struct {
	contacts []models.Contact
	err      error
}

type progressUpdateMsg tasks.ProgressUpdate

type syncCompleteMsg struct {
	result *tasks.SyncRunResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, source services.SourceService, engine *tasks.ContactEngine, opts Options) *Model {
	return &Model{
		ctx:    ctx,
		view:   ContactListView,
		source: source,
		engine: engine,
		opts:   opts,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching today's contacts from the CRM.
func (m *Model) Init() tea.Cmd {
	return m.fetchContacts()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.contactList.Width() == 0 {
			m.contactList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ContactListView:
			return m.handleContactListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case contactsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.contacts = msg.contacts
		items := make([]list.Item, len(msg.contacts))
		for i, contact := range msg.contacts {
			items[i] = contactItem{contact: contact}
		}
		m.contactList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.contactList.Title = "Contacts Created Today"
		m.contactList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ContactListView:
		return m.renderContactList()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleContactListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.contactList, cmd = m.contactList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ContactListView
		return m, nil
	case "y":
		m.view = SyncView
		return m, m.startSync()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ContactListView
		m.result = nil
		m.err = nil
		return m, m.fetchContacts()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == ContactListView {
		m.contactList, cmd = m.contactList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchContacts() tea.Cmd {
	return func() tea.Msg {
		contacts, err := m.source.ContactsCreatedToday(m.ctx, time.Now())
		return contactsFetchedMsg{contacts: contacts, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan syncCompleteMsg, 1)

	go func(progress chan tasks.ProgressUpdate) {
		result, err := m.engine.Run(m.ctx, progress)
		done <- syncCompleteMsg{result: result, err: err}
		close(progress)
	}(m.progressChan)

	m.done = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	done := m.done
	return func() tea.Msg {
		if progress == nil {
			return nil
		}
		select {
		case update, ok := <-progress:
			if !ok {
				return <-done
			}
			return progressUpdateMsg(update)
		case msg := <-done:
			return msg
		}
	}
}

func (m *Model) renderContactList() string {
	helpKeys := []key.Binding{m.keys.sync, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.contactList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Sync %d contacts to the directory?", len(m.contacts)))

	deleteLine := "off"
	if m.opts.DeleteUnqualified {
		deleteLine = "on"
	}
	info := fmt.Sprintf("\nContacts: %d\nFrequency: %s\nDelete unqualified: %s\n",
		len(m.contacts), m.opts.Frequency, deleteLine)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Contacts")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchSource:
		phase = "Fetching contacts from the CRM..."
	case tasks.FetchDirectory:
		phase = "Fetching the shared directory..."
	case tasks.BuildIndex:
		phase = "Indexing directory entries..."
	case tasks.Reconcile:
		phase = fmt.Sprintf("Reconciling contacts (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Sync failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Sync Complete!")
	info := fmt.Sprintf(
		"\nContacts: %d\nDirectory entries: %d\n\nCreated: %d\nUpdated: %d\nDeleted: %d\nSkipped: %d\nNo-ops: %d",
		m.result.SourceTotal,
		m.result.DirectoryTotal,
		m.result.Created,
		m.result.Updated,
		m.result.Deleted,
		m.result.Skipped,
		m.result.NoOps,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed: %d records", m.result.Failed)))
		for _, record := range m.result.Records {
			if record.Err != nil {
				failed += fmt.Sprintf("\n  • %s: %v", record.Contact.FullName(), record.Err)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.retry, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
