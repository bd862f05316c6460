package configdef

var HasDupExtensions = hasDupExtensions
