package storage

var (
	SanitizeName = sanitizeName
	ObjectName   = objectName
	DriveFileID  = driveFileID
)
