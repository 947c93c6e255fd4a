package book

// SampleRecords is the catalog loaded by the memory store and by cmd/seed.
var SampleRecords = []Record{
	{ID: 1, Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Category: "Technology"},
	{ID: 2, Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Category: "Technology"},
	{ID: 3, Title: "Dune", Author: "Frank Herbert", Category: "Science Fiction"},
	{ID: 4, Title: "The Name of the Rose", Author: "Umberto Eco", Category: "Mystery"},
	{ID: 5, Title: "Sapiens", Author: "Yuval Noah Harari", Category: "History"},
	{ID: 6, Title: "Meditations", Author: "Marcus Aurelius", Category: "Philosophy"},
}
