package main

import (
	"math/rand"
	"strconv"
	"strings"

	"harshagw/qanun/internal/extract"
)

const (
	wordsPerArticle = 60
	articlesPerBook = 250
)

// Vocabulary drawn from criminal procedure texts, weighted towards the
// common function words.
var vocabulary = []string{
	"في", "من", "على", "أن", "إلى", "التي", "الذي", "أو", "لا", "كل",
	"المحكمة", "النيابة", "العامة", "الشرطة", "القضائية", "المتهم", "الدعوى",
	"العمومية", "الحكم", "القرار", "الطعن", "الاستئناف", "النقض", "التحقيق",
	"قاضي", "الجنايات", "الجنح", "المخالفات", "العقوبة", "الغرامة", "الحبس",
	"السجن", "المدني", "الطرف", "الضحية", "الشاهد", "الخبرة", "التفتيش",
	"الحراسة", "النظرية", "الاعتقال", "الاحتياطي", "المراقبة", "الإفراج",
	"المؤقت", "الكفالة", "السرقة", "النصب", "خيانة", "الأمانة", "التزوير",
	"الرشوة", "الاختلاس", "القتل", "العمد", "الجرح", "الضرب", "الإيذاء",
	"المحضر", "الضابط", "الوكيل", "العام", "للملك", "الملك", "الجلسة",
	"العلنية", "الدفاع", "المحامي", "الأجل", "أيام", "ثلاثة", "خمسة", "عشرة",
}

// synthesize builds a deterministic corpus of n articles spread across two
// sources.
func synthesize(n int) []extract.Record {
	rng := rand.New(rand.NewSource(42))
	records := make([]extract.Record, 0, n)

	var sb strings.Builder
	for i := range n {
		source, book := "cpp", "book_"+strconv.Itoa(i/articlesPerBook)
		if i%3 == 2 {
			source = "dp"
		}

		sb.Reset()
		for w := range wordsPerArticle {
			if w > 0 {
				sb.WriteByte(' ')
			}
			// Squaring skews the draw towards the head of the list.
			f := rng.Float64()
			sb.WriteString(vocabulary[int(f*f*float64(len(vocabulary)))])
		}

		records = append(records, extract.Record{
			ArticleNumber: strconv.Itoa(i + 1),
			SourceKey:     source,
			BookID:        book,
			BookName:      "الكتاب " + strconv.Itoa(i/articlesPerBook+1),
			ChapterName:   "الباب " + strconv.Itoa(i/50+1),
			Content:       sb.String(),
		})
	}
	return records
}
