package txnlog

import (
	"fmt"
	"strings"
)

// ACL is one access-control entry attached to a node.
type ACL struct {
	Perms  int32  `json:"perms"`
	Scheme string `json:"scheme"`
	ID     string `json:"id"`
}

// DecodeACL reads perms, scheme and id in that order.
func DecodeACL(src Source) (ACL, error) {
	var acl ACL
	var err error
	if acl.Perms, err = ReadInt32(src); err != nil {
		return ACL{}, err
	}
	if acl.Scheme, err = ReadString(src); err != nil {
		return ACL{}, err
	}
	if acl.ID, err = ReadString(src); err != nil {
		return ACL{}, err
	}
	return acl, nil
}

// DecodeACLList reads an int32 count and then that many entries. A zero count
// yields an empty, non-nil slice.
func DecodeACLList(src Source) ([]ACL, error) {
	count, err := ReadInt32(src)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: invalid acl count %d", ErrTruncated, count)
	}
	// count is untrusted until the entries are actually read
	acls := make([]ACL, 0, min(int(count), 64))
	for range count {
		acl, err := DecodeACL(src)
		if err != nil {
			return nil, err
		}
		acls = append(acls, acl)
	}
	return acls, nil
}

func (a ACL) String() string {
	return fmt.Sprintf("Acl %s %s %x", a.Scheme, a.ID, a.Perms)
}

func formatACLs(acls []ACL) string {
	parts := make([]string, len(acls))
	for i, a := range acls {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
