package rules

// Default returns the built-in table used when no rules are configured.
func Default() *Table {
	return MustNew([]Rule{
		{Category: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".heic", ".tiff"}},
		{Category: "Documents", Extensions: []string{".pdf", ".doc", ".docx", ".txt", ".odt", ".rtf", ".xls", ".xlsx", ".ppt", ".pptx", ".csv", ".md"}},
		{Category: "Audio", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"}},
		{Category: "Video", Extensions: []string{".mp4", ".mkv", ".avi", ".mov", ".wmv", ".webm"}},
		{Category: "Archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2", ".xz"}},
		{Category: "Code", Extensions: []string{".py", ".go", ".js", ".ts", ".html", ".css", ".json", ".java", ".c", ".cpp", ".sh"}},
		{Category: "Executables", Extensions: []string{".exe", ".msi", ".deb", ".rpm", ".appimage", ".dmg"}},
	})
}
