package slack

var TruncateRunes = truncateRunes
