package mainboilerplate

import "github.com/jessevdk/go-flags"

// AddCommandFunc adds a sub-command to a parent flags.Command.
type AddCommandFunc func(*flags.Command) error

// CommandRegistry collects sub-commands from package init() functions, keyed
// on the dotted path of their parent command ("" is the root). Once the parser
// exists, AddCommands attaches them.
type CommandRegistry map[string][]AddCommandFunc

// NewCommandRegistry returns an empty CommandRegistry.
func NewCommandRegistry() CommandRegistry {
	return make(CommandRegistry)
}

// AddCommand registers a flags.Command.AddCommand of |command| under |parentName|.
// Nested parents are separated by periods, eg "level1.level2".
func (cr CommandRegistry) AddCommand(parentName string, command string, shortDescription string, longDescription string, data interface{}) {
	cr[parentName] = append(cr[parentName], func(cmd *flags.Command) error {
		_, err := cmd.AddCommand(command, shortDescription, longDescription, data)
		return err
	})
}

// AddCommands adds commands registered under |rootName| to |rootCmd|. If
// |recursive|, sub-commands of those commands are added as well.
func (cr CommandRegistry) AddCommands(rootName string, rootCmd *flags.Command, recursive bool) error {
	for _, addCommandFunc := range cr[rootName] {
		if err := addCommandFunc(rootCmd); err != nil {
			return err
		}
	}
	if !recursive {
		return nil
	}

	for _, cmd := range rootCmd.Commands() {
		var cmdName = cmd.Name
		if rootName != "" {
			cmdName = rootName + "." + cmdName
		}
		if err := cr.AddCommands(cmdName, cmd, recursive); err != nil {
			return err
		}
	}
	return nil
}
