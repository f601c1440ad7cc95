package config

// StorageKeyStruct names the keys the collection and its metadata live under.
// They match the local-storage layout of the browser app so exported blobs
// stay interchangeable.
type StorageKeyStruct struct {
	Students    string
	LastUpdated string
	LastBackup  string
	Theme       string
}

var StorageKey = &StorageKeyStruct{
	Students:    "students",
	LastUpdated: "students_last_updated",
	LastBackup:  "lastBackup",
	Theme:       "theme",
}
