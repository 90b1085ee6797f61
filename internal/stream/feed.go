package stream

import (
	"bufio"
	"io"
	"strings"
)

// feedScanner читает события live-feed из SSE-потока. Бэкенд шлёт
// только data-строки с JSON, события разделены пустой строкой.
// Комментарии (строки с ":") и прочие поля пропускаются.
type feedScanner struct {
	reader  *bufio.Reader
	payload []byte
	err     error
}

func newFeedScanner(r io.Reader) *feedScanner {
	return &feedScanner{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next продвигает сканер к следующему событию. false — конец потока
// или ошибка; различать через Err.
func (s *feedScanner) Next() bool {
	var dataLines []string
	hasData := false

	for {
		line, err := s.reader.ReadString('\n')

		// Хвост без перевода строки перед EOF — дособираем событие
		if err != nil && line == "" {
			if err == io.EOF {
				if hasData {
					s.payload = []byte(strings.Join(dataLines, "\n"))
					s.err = io.EOF
					return true
				}
				return false
			}
			s.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		// Пустая строка — граница события
		if line == "" {
			if hasData {
				s.payload = []byte(strings.Join(dataLines, "\n"))
				return true
			}
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		if field == "data" {
			dataLines = append(dataLines, strings.TrimPrefix(value, " "))
			hasData = true
		}
	}
}

// Data — полезная нагрузка последнего события, валидна после Next()==true
func (s *feedScanner) Data() []byte {
	return s.payload
}

// Err — первая ошибка чтения; чистый EOF ошибкой не считается
func (s *feedScanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
