package ingest

// GenderName maps the TMDB gender id to the label stored on people rows.
func GenderName(genderID int) string {
	switch genderID {
	case 1:
		return "Female"
	case 2:
		return "Male"
	case 3:
		return "Non-binary"
	default:
		return "Not specified"
	}
}

// ReleaseTypeName maps the TMDB release type id to the label stored on
// certification rows.
func ReleaseTypeName(releaseTypeID int) string {
	switch releaseTypeID {
	case 1:
		return "Premiere"
	case 2:
		return "Theatrical (limited)"
	case 3:
		return "Theatrical"
	case 4:
		return "Digital"
	case 5:
		return "Physical"
	case 6:
		return "TV"
	default:
		return "Not specified"
	}
}
