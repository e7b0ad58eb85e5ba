package main

// setupCommands attaches every command to the root.
func setupCommands() {
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(variableCmd)
}
