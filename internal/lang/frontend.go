package lang

func init() {
	Languages["vue"] = &Language{
		Name:       "vue",
		Extensions: []string{".vue"},
		Batch:      true,
		RecordType: "vue_sfc",
	}
	Languages["javascript"] = &Language{
		Name:       "javascript",
		Extensions: []string{".js"},
		Batch:      true,
		RecordType: "javascript_module",
	}
}
