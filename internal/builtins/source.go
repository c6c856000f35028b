package builtins

import "subedit/internal/commands"

// SourceName identifies commands registered by this package.
const SourceName = "builtin"

// Source returns the built-in command source.
func Source() *commands.StaticSource {
	return &commands.StaticSource{
		SourceName: SourceName,
		Commands:   Commands(),
		Menu:       menu(),
	}
}

// Commands returns fresh instances of every built-in command.
func Commands() []*commands.Command {
	return []*commands.Command{
		fileNew(),
		fileOpen(),
		fileSave(),
		subInsert(),
		subDelete(),
		subDuplicate(),
		subSort(),
		subSelect(),
		subSet(),
		subShift(),
		subSwapTextNote(),
		styleAdd(),
		metaSet(),
		promptNote(),
		reloadCommands(),
		reloadCommandsSilent(),
	}
}

func menu() []commands.MenuItem {
	return []commands.MenuItem{
		{Label: "&New", Cmdline: "file-new"},
		{Label: "&Save", Cmdline: "file-save"},
		{Label: "Insert &before", Cmdline: "sub-insert --before"},
		{Label: "Insert &after", Cmdline: "sub-insert --after"},
		{Label: "&Delete", Cmdline: "sub-delete"},
		{Label: "D&uplicate", Cmdline: "sub-duplicate"},
		{Label: "S&ort", Cmdline: "sub-sort -t all"},
		{Label: "Edit &note", Cmdline: "prompt-note"},
		{Label: "&Reload commands", Cmdline: "reload-cmds"},
	}
}
