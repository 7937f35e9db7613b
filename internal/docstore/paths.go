package docstore

import "strings"

const (
	usersCollection       = "users"
	churchesCollection    = "churches"
	inviteIndexCollection = "inviteIndex"
	identitiesCollection  = "identities"

	membersSub    = "members"
	invitesSub    = "invites"
	financeSub    = "finance"
	categoriesSub = "categories"
	peopleSub     = "people"
)

// Join builds a path from segments. Slashes inside a segment are escaped so
// that an identifier can never address a different collection.
func Join(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = strings.ReplaceAll(s, "/", "%2F")
	}
	return strings.Join(escaped, "/")
}

// Split returns the collection path and document ID of a document path.
func Split(path string) (collection, id string, err error) {
	segments := strings.Split(path, "/")
	if len(segments) < 2 || len(segments)%2 != 0 {
		return "", "", ErrInvalidPath
	}
	for _, s := range segments {
		if s == "" {
			return "", "", ErrInvalidPath
		}
	}
	return strings.Join(segments[:len(segments)-1], "/"), segments[len(segments)-1], nil
}

// ValidCollection reports whether path names a collection (odd segment count).
func ValidCollection(path string) bool {
	segments := strings.Split(path, "/")
	if len(segments)%2 != 1 {
		return false
	}
	for _, s := range segments {
		if s == "" {
			return false
		}
	}
	return true
}

func UserPath(uid string) string          { return Join(usersCollection, uid) }
func ChurchPath(churchID string) string   { return Join(churchesCollection, churchID) }
func InviteIndexPath(email string) string { return Join(inviteIndexCollection, email) }
func IdentityPath(email string) string    { return Join(identitiesCollection, email) }

func MembersCollection(churchID string) string { return Join(churchesCollection, churchID, membersSub) }
func MemberPath(churchID, uid string) string   { return Join(churchesCollection, churchID, membersSub, uid) }

func InvitesCollection(churchID string) string { return Join(churchesCollection, churchID, invitesSub) }
func InvitePath(churchID, email string) string {
	return Join(churchesCollection, churchID, invitesSub, email)
}

func FinanceCollection(churchID string) string { return Join(churchesCollection, churchID, financeSub) }
func FinancePath(churchID, entryID string) string {
	return Join(churchesCollection, churchID, financeSub, entryID)
}

func CategoriesCollection(churchID string) string {
	return Join(churchesCollection, churchID, categoriesSub)
}
func CategoryPath(churchID, categoryID string) string {
	return Join(churchesCollection, churchID, categoriesSub, categoryID)
}

func PeopleCollection(churchID string) string { return Join(churchesCollection, churchID, peopleSub) }
func PersonPath(churchID, personID string) string {
	return Join(churchesCollection, churchID, peopleSub, personID)
}
