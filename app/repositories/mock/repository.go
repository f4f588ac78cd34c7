package mock

import (
	"sort"
	"sync"
	"time"

	"blog/app/models"
	"blog/app/repositories"
)

type AuthorRepository struct {
	authors map[int]*models.Author
	nextID  int
	mutex   sync.RWMutex
}

type TagRepository struct {
	tags   map[int]*models.Tag
	nextID int
	mutex  sync.RWMutex
}

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
	Now    func() time.Time
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex
	// Err, when set, is returned by every call
	Err error
}

func NewAuthorRepository() *AuthorRepository {
	return &AuthorRepository{authors: make(map[int]*models.Author), nextID: 1}
}

func NewTagRepository() *TagRepository {
	return &TagRepository{tags: make(map[int]*models.Tag), nextID: 1}
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[int]*models.Post), nextID: 1, Now: time.Now}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[int]*models.Comment), nextID: 1}
}

// AuthorRepository implementation
func (m *AuthorRepository) Create(author *models.Author) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	author.ID = m.nextID
	m.nextID++
	m.authors[author.ID] = author
	return nil
}

func (m *AuthorRepository) GetByID(id int) (*models.Author, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	author, exists := m.authors[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return author, nil
}

func (m *AuthorRepository) List() ([]*models.Author, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	authors := []*models.Author{}
	for _, a := range m.authors {
		authors = append(authors, a)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].ID < authors[j].ID })
	return authors, nil
}

func (m *AuthorRepository) Update(author *models.Author) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.authors[author.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.authors[author.ID] = author
	return nil
}

func (m *AuthorRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.authors[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.authors, id)
	return nil
}

// TagRepository implementation
func (m *TagRepository) Create(tag *models.Tag) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	tag.ID = m.nextID
	m.nextID++
	m.tags[tag.ID] = tag
	return nil
}

func (m *TagRepository) GetByID(id int) (*models.Tag, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tag, exists := m.tags[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return tag, nil
}

func (m *TagRepository) ListByIDs(ids []int) ([]*models.Tag, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tags := []*models.Tag{}
	for _, id := range ids {
		if tag, exists := m.tags[id]; exists {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

func (m *TagRepository) List() ([]*models.Tag, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	tags := []*models.Tag{}
	for _, tag := range m.tags {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

func (m *TagRepository) Update(tag *models.Tag) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.tags[tag.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.tags[tag.ID] = tag
	return nil
}

func (m *TagRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.tags[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.tags, id)
	return nil
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return repositories.ErrDuplicateSlug
		}
	}
	post.BeforeSave(m.Now())
	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = post
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return post, nil
}

func (m *PostRepository) GetBySlug(slug string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, post := range m.posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *PostRepository) List(limit int) ([]*models.Post, error) {
	posts := m.filter(func(*models.Post) bool { return true })
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (m *PostRepository) ListByIDs(ids []int) ([]*models.Post, error) {
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return m.filter(func(p *models.Post) bool { return wanted[p.ID] }), nil
}

func (m *PostRepository) ListByAuthor(authorID int) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool {
		return p.AuthorID != nil && *p.AuthorID == authorID
	}), nil
}

func (m *PostRepository) ListByTag(tagID int) ([]*models.Post, error) {
	return m.filter(func(p *models.Post) bool { return p.HasTag(tagID) }), nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	post.BeforeSave(m.Now())
	m.posts[post.ID] = post
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) filter(keep func(*models.Post) bool) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	posts := []*models.Post{}
	for _, post := range m.posts {
		if keep(post) {
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

// CommentRepository implementation
func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	comment.BeforeCreate()
	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.ID] = comment
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return comment, nil
}

func (m *CommentRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID > comments[j].ID })
	return comments, nil
}

// Count returns the number of stored comments
func (m *CommentRepository) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.comments)
}
