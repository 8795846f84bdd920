package services

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/records"
)

const (
	communityPostsKey = "community_posts"
	userLikesPrefix   = "user_likes_"
	userProfilePrefix = "user_profiles_"
)

var (
	anonAdjectives = []string{"Brave", "Strong", "Hopeful", "Determined", "Courageous", "Resilient", "Wise", "Patient"}
	anonNouns      = []string{"Warrior", "Survivor", "Champion", "Hero", "Fighter", "Spirit", "Soul", "Heart"}
)

var validPostCategories = map[PostCategory]bool{
	PostMotivation: true,
	PostStruggle:   true,
	PostSuccess:    true,
	PostQuestion:   true,
	PostSupport:    true,
}

// CommunityService stores posts with embedded comments and per-user like
// membership, and derives aggregate counts.
type CommunityService struct {
	store    *records.Store
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	anonName func() string
}

func NewCommunityService(store *records.Store, log *zap.Logger) *CommunityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommunityService{
		store:    store,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    newID,
		anonName: generateAnonymousName,
	}
}

// generateAnonymousName produces a pseudonym like BraveWarrior417. Not
// guaranteed unique.
func generateAnonymousName() string {
	adjective := anonAdjectives[rand.Intn(len(anonAdjectives))]
	noun := anonNouns[rand.Intn(len(anonNouns))]
	return fmt.Sprintf("%s%s%d", adjective, noun, rand.Intn(999)+1)
}

func userLikesKey(userID string) string   { return userLikesPrefix + userID }
func userProfileKey(userID string) string { return userProfilePrefix + userID }

// CreatePost prepends a new post so the stored order stays most-recent-first,
// and bumps the author's post count.
func (s *CommunityService) CreatePost(authorID, content string, category PostCategory, isAnonymous bool, tags []string, mood PostMood) (*CommunityPost, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, NewInvalidError("author id required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, NewInvalidError("content required")
	}
	if !validPostCategories[category] {
		return nil, NewInvalidError("unknown category")
	}
	if mood == "" {
		mood = PostMoodNeutral
	}
	if tags == nil {
		tags = []string{}
	}
	authorName := "User"
	if isAnonymous {
		authorName = s.anonName()
	}
	now := s.now()
	post := CommunityPost{
		ID:          s.newID(),
		AuthorID:    authorID,
		AuthorName:  authorName,
		Content:     content,
		Category:    category,
		Comments:    []Comment{},
		IsAnonymous: isAnonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        tags,
		Mood:        mood,
	}
	_, err := records.Update(s.store, communityPostsKey, func(posts []CommunityPost) ([]CommunityPost, error) {
		return append([]CommunityPost{post}, posts...), nil
	})
	if err != nil {
		return nil, storageErr("create post", err)
	}
	if err := s.bumpPostCount(authorID); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *CommunityService) bumpPostCount(userID string) error {
	_, err := records.UpdateOne(s.store, userProfileKey(userID), func(p *UserProfile) (*UserProfile, error) {
		if p == nil {
			p = s.defaultProfile(userID)
		}
		p.PostsCount++
		return p, nil
	})
	if err != nil {
		return storageErr("update post count", err)
	}
	return nil
}

func (s *CommunityService) defaultProfile(userID string) *UserProfile {
	return &UserProfile{
		ID:          userID,
		DisplayName: s.anonName(),
		Avatar:      "👤",
		JoinDate:    s.now(),
		IsAnonymous: true,
	}
}

func (s *CommunityService) allPosts() ([]CommunityPost, error) {
	posts, err := records.Read[CommunityPost](s.store, communityPostsKey)
	if err != nil {
		return nil, storageErr("read posts", err)
	}
	return posts, nil
}

// Posts pages through the stored most-recent-first order.
func (s *CommunityService) Posts(page, limit int) ([]CommunityPost, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	start := (page - 1) * limit
	if start >= len(posts) {
		return []CommunityPost{}, nil
	}
	end := start + limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end], nil
}

func (s *CommunityService) PostsByCategory(category PostCategory) ([]CommunityPost, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	out := []CommunityPost{}
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CommunityService) PostsByUser(userID string) ([]CommunityPost, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	out := []CommunityPost{}
	for _, p := range posts {
		if p.AuthorID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ToggleLike flips userID's like on postID and returns the new liked state.
// The per-user membership list decides direction; the counter follows it and
// never drops below zero. Both writes happen under the posts key lock, so a
// pair of sequential toggles restores the original count.
func (s *CommunityService) ToggleLike(postID, userID string) (bool, error) {
	liked := false
	_, err := records.Update(s.store, communityPostsKey, func(posts []CommunityPost) ([]CommunityPost, error) {
		idx := -1
		for i := range posts {
			if posts[i].ID == postID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return nil, NewNotFoundError("post not found")
		}
		likes, err := records.Read[string](s.store, userLikesKey(userID))
		if err != nil {
			return nil, err
		}
		already := false
		for _, id := range likes {
			if id == postID {
				already = true
				break
			}
		}
		if already {
			if posts[idx].Likes > 0 {
				posts[idx].Likes--
			}
			kept := []string{}
			for _, id := range likes {
				if id != postID {
					kept = append(kept, id)
				}
			}
			likes = kept
		} else {
			posts[idx].Likes++
			likes = append(likes, postID)
			liked = true
		}
		if err := records.Write(s.store, userLikesKey(userID), likes); err != nil {
			return nil, err
		}
		return posts, nil
	})
	if err != nil {
		return false, storageErr("toggle like", err)
	}
	return liked, nil
}

func (s *CommunityService) UserLikes(userID string) ([]string, error) {
	likes, err := records.Read[string](s.store, userLikesKey(userID))
	if err != nil {
		return nil, storageErr("read user likes", err)
	}
	return likes, nil
}

// AddComment appends an embedded comment to the matching post.
func (s *CommunityService) AddComment(postID, authorID, content string, isAnonymous bool) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewInvalidError("content required")
	}
	authorName := "User"
	if isAnonymous {
		authorName = s.anonName()
	}
	comment := Comment{
		ID:          s.newID(),
		PostID:      postID,
		AuthorID:    authorID,
		AuthorName:  authorName,
		Content:     content,
		IsAnonymous: isAnonymous,
		CreatedAt:   s.now(),
	}
	_, err := records.Update(s.store, communityPostsKey, func(posts []CommunityPost) ([]CommunityPost, error) {
		for i := range posts {
			if posts[i].ID == postID {
				posts[i].Comments = append(posts[i].Comments, comment)
				posts[i].UpdatedAt = comment.CreatedAt
				return posts, nil
			}
		}
		return nil, NewNotFoundError("post not found")
	})
	if err != nil {
		return nil, storageErr("add comment", err)
	}
	return &comment, nil
}

// TrendingPosts returns the 10 most liked posts of the trailing week.
func (s *CommunityService) TrendingPosts() ([]CommunityPost, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	cutoff := s.now().AddDate(0, 0, -7)
	recent := []CommunityPost{}
	for _, p := range posts {
		if p.CreatedAt.After(cutoff) {
			recent = append(recent, p)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Likes > recent[j].Likes })
	if len(recent) > 10 {
		recent = recent[:10]
	}
	return recent, nil
}

// SearchPosts is a case-insensitive substring match over content, tags, and
// author display name, keeping storage order.
func (s *CommunityService) SearchPosts(query string) ([]CommunityPost, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := []CommunityPost{}
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Content), q) ||
			strings.Contains(strings.ToLower(p.AuthorName), q) ||
			anyTagContains(p.Tags, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func anyTagContains(tags []string, q string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Stats recomputes the aggregate counts from scratch on every call.
func (s *CommunityService) Stats() (*CommunityStats, error) {
	posts, err := s.allPosts()
	if err != nil {
		return nil, err
	}
	stats := &CommunityStats{TotalPosts: len(posts), TopCategories: []CategoryCount{}}
	authors := map[string]struct{}{}
	categories := map[PostCategory]int{}
	for _, p := range posts {
		stats.TotalComments += len(p.Comments)
		stats.TotalLikes += p.Likes
		authors[p.AuthorID] = struct{}{}
		categories[p.Category]++
	}
	stats.ActiveUsers = len(authors)
	for cat, count := range categories {
		stats.TopCategories = append(stats.TopCategories, CategoryCount{Category: cat, Count: count})
	}
	sort.SliceStable(stats.TopCategories, func(i, j int) bool {
		if stats.TopCategories[i].Count != stats.TopCategories[j].Count {
			return stats.TopCategories[i].Count > stats.TopCategories[j].Count
		}
		return stats.TopCategories[i].Category < stats.TopCategories[j].Category
	})
	if len(stats.TopCategories) > 5 {
		stats.TopCategories = stats.TopCategories[:5]
	}
	return stats, nil
}

// DeletePost removes a post, but only for its author.
func (s *CommunityService) DeletePost(postID, userID string) error {
	_, err := records.Update(s.store, communityPostsKey, func(posts []CommunityPost) ([]CommunityPost, error) {
		for i := range posts {
			if posts[i].ID == postID && posts[i].AuthorID == userID {
				return append(posts[:i], posts[i+1:]...), nil
			}
		}
		return nil, NewNotFoundError("post not found")
	})
	if err != nil {
		return storageErr("delete post", err)
	}
	return nil
}

func (s *CommunityService) Profile(userID string) (*UserProfile, error) {
	p, err := records.ReadOne[UserProfile](s.store, userProfileKey(userID))
	if err != nil {
		return nil, storageErr("read profile", err)
	}
	return p, nil
}

// ProfilePatch carries the optional fields of a profile update.
type ProfilePatch struct {
	DisplayName *string `json:"display_name,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	IsAnonymous *bool   `json:"is_anonymous,omitempty"`
}

// UpdateProfile upserts the profile, filling defaults on first touch.
func (s *CommunityService) UpdateProfile(userID string, patch ProfilePatch) (*UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewInvalidError("user id required")
	}
	p, err := records.UpdateOne(s.store, userProfileKey(userID), func(p *UserProfile) (*UserProfile, error) {
		if p == nil {
			p = s.defaultProfile(userID)
		}
		if patch.DisplayName != nil && strings.TrimSpace(*patch.DisplayName) != "" {
			p.DisplayName = *patch.DisplayName
		}
		if patch.Avatar != nil && *patch.Avatar != "" {
			p.Avatar = *patch.Avatar
		}
		if patch.IsAnonymous != nil {
			p.IsAnonymous = *patch.IsAnonymous
		}
		return p, nil
	})
	if err != nil {
		return nil, storageErr("update profile", err)
	}
	return p, nil
}
