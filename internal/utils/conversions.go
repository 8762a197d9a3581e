package utils

// ToStringSlice keeps the string elements of a decoded JSON array, in order.
func ToStringSlice(value any) []string {
	slice, ok := value.([]any)
	if !ok {
		if s, ok := value.(string); ok && s != "" {
			return []string{s}
		}
		return []string{}
	}
	stringSlice := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}
