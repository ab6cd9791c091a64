package commands

// Error messages
const (
	ErrConfigLoaderUnavailable = "config loader unavailable"
	ErrNotebookUnavailable     = "notebook service unavailable"
	ErrMemoryUnavailable       = "suggestion memory unavailable"
	ErrKeyRequired             = "--key is required"
	ErrTriggerRequired         = "--trigger is required"
	ErrCellNotFound            = "cell %d not found"
)

// Success messages
const (
	MsgConfigurationValid = "Configuration valid"
	MsgNoCells            = "Notebook is empty."
	MsgNoSuggestions      = "No suggestion available."
	MsgNoMemory           = "No suggestion memory recorded yet."
)
