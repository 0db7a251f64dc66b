package models

// CategoryUncategorized is the category assigned when neither an override nor
// a pattern matches a transaction description.
const CategoryUncategorized = "uncategorized"

// JournalFileExtension is the extension of year-partitioned journal files.
const JournalFileExtension = ".journal"
